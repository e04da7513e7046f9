package grading

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ocena/internal/dimensions"
	"ocena/internal/llm"
	"ocena/internal/logging"
	"ocena/internal/pipeline"
	"ocena/internal/quality"
	"ocena/internal/report"
	"ocena/internal/rng"
	"ocena/internal/textstats"
	"ocena/internal/wordlimit"
)

// MinTextLength is the shortest trimmed text, in bytes, that is graded
// rather than given a provisional result.
const MinTextLength = 50

const (
	provisionalScore      = 75
	provisionalConfidence = 70
)

type Source string

const (
	SourceRemote      Source = "remote"
	SourceHeuristic   Source = "heuristic"
	SourceProvisional Source = "provisional"
)

// RemoteGrader returns a model's free-text assessment of a submission.
type RemoteGrader interface {
	Grade(ctx context.Context, text string) (string, error)
}

type Result struct {
	Score             int                      `json:"score"`
	Confidence        int                      `json:"confidence"`
	FeedbackHTML      string                   `json:"feedback"`
	DimensionalScores dimensions.Scores        `json:"dimensionalScores"`
	WritingQuality    quality.WritingQuality   `json:"writingQuality"`
	WordCount         int                      `json:"wordCount"`
	WordCountDetails  textstats.WordCountStats `json:"wordCountDetails"`
	ScoreParsed       bool                     `json:"scoreParsed"`
	Source            Source                   `json:"source"`
	// Error explains a fallback. It is sent as "diagnostic" because the
	// upload response already uses "error" for files that were not graded.
	Error             string                   `json:"diagnostic,omitempty"`
}

type Grader struct {
	remote    RemoteGrader
	policy    wordlimit.Policy
	timeout   time.Duration
	workers   int
	newSource func() rng.Source
	logger    *slog.Logger
}

type Option func(*Grader)

func WithTimeout(d time.Duration) Option {
	return func(g *Grader) { g.timeout = d }
}

func WithWordsPerQuestion(n int) Option {
	return func(g *Grader) { g.policy.WordsPerQuestion = n }
}

func WithWorkers(n int) Option {
	return func(g *Grader) { g.workers = n }
}

// WithRandomness replaces the per-call randomness source factory.
func WithRandomness(fn func() rng.Source) Option {
	return func(g *Grader) { g.newSource = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Grader) { g.logger = l }
}

// New returns a Grader. A nil remote grades every document locally.
func New(remote RemoteGrader, opts ...Option) *Grader {
	g := &Grader{
		remote:    remote,
		policy:    wordlimit.Policy{WordsPerQuestion: wordlimit.DefaultWordsPerQuestion},
		timeout:   30 * time.Second,
		newSource: func() rng.Source { return rng.New() },
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("component", "grader")
	return g
}

// local is the analysis shared by every grading path.
type local struct {
	counts  textstats.WordCountStats
	quality quality.WritingQuality
	limit   wordlimit.Analysis
}

func (g *Grader) analyze(text string) local {
	return local{
		counts:  textstats.AnalyzeParagraphs(text),
		quality: quality.Analyze(text),
		limit:   g.policy.Check(text),
	}
}

// Grade never fails: remote problems fall back to the local heuristic and
// are described in Result.Error.
func (g *Grader) Grade(ctx context.Context, text string) Result {
	l := g.analyze(text)
	if len(strings.TrimSpace(text)) < MinTextLength {
		return g.provisional(l)
	}

	src := g.newSource()
	if g.remote == nil {
		return g.heuristic(src, text, l, "remote grader not configured; heuristic assessment used", "")
	}

	answer, err := g.callRemote(ctx, text)
	if err == nil && strings.TrimSpace(answer) == "" {
		err = errEmptyAnswer
	}
	if err != nil {
		diagnostic, notice := describe(err)
		g.logger.Warn("remote grading failed, using heuristic", "error", err)
		return g.heuristic(src, text, l, diagnostic, notice)
	}

	parsed := report.ParseAnswer(answer, src)
	if !parsed.ScoreParsed {
		g.logger.Info("remote answer had no score line")
	}
	return Result{
		Score:             parsed.Score,
		Confidence:        parsed.Confidence,
		FeedbackHTML:      report.FormatAnswer(parsed),
		DimensionalScores: dimensions.Anchored(src, parsed.Score, l.limit.Penalty),
		WritingQuality:    l.quality,
		WordCount:         l.counts.WordCount,
		WordCountDetails:  l.counts,
		ScoreParsed:       parsed.ScoreParsed,
		Source:            SourceRemote,
	}
}

// GradeBatch grades texts concurrently and returns results in input order.
// An item the pool could not grade, because ctx ended first or grading
// panicked, still gets a local result with the failure as its diagnostic.
func (g *Grader) GradeBatch(ctx context.Context, texts []string) []Result {
	results, errs := pipeline.Map(ctx, texts, g.workers, func(ctx context.Context, _ int, text string) (Result, error) {
		return g.Grade(ctx, text), nil
	})
	for i, err := range errs {
		if err != nil {
			g.logger.Warn("batch item not graded", "index", i, "error", err)
			results[i] = g.fallback(texts[i], err)
		}
	}
	return results
}

func (g *Grader) fallback(text string, err error) Result {
	l := g.analyze(text)
	diagnostic := "grading not completed: " + err.Error()
	if len(strings.TrimSpace(text)) < MinTextLength {
		res := g.provisional(l)
		res.Error = diagnostic
		return res
	}
	return g.heuristic(g.newSource(), text, l, diagnostic, "")
}

func (g *Grader) callRemote(ctx context.Context, text string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.remote.Grade(ctx, text)
}

func (g *Grader) provisional(l local) Result {
	return Result{
		Score:             provisionalScore,
		Confidence:        provisionalConfidence,
		FeedbackHTML:      report.Provisional(provisionalScore, provisionalConfidence),
		DimensionalScores: dimensions.Default(),
		WritingQuality:    l.quality,
		WordCount:         l.counts.WordCount,
		WordCountDetails:  l.counts,
		Source:            SourceProvisional,
	}
}

func (g *Grader) heuristic(src rng.Source, text string, l local, diagnostic, notice string) Result {
	r := report.Compose(src, report.Input{
		Text:      text,
		WordCount: l.counts.WordCount,
		Quality:   l.quality,
		Limit:     l.limit,
	})
	return Result{
		Score:             r.Score,
		Confidence:        r.Confidence,
		FeedbackHTML:      notice + r.HTML,
		DimensionalScores: dimensions.Random(src, l.limit.Penalty),
		WritingQuality:    l.quality,
		WordCount:         l.counts.WordCount,
		WordCountDetails:  l.counts,
		Source:            SourceHeuristic,
		Error:             diagnostic,
	}
}

var errEmptyAnswer = errors.New("empty answer")

// describe maps a remote failure to a diagnostic and the notice placed
// above the heuristic report.
func describe(err error) (diagnostic, notice string) {
	if errors.Is(err, errEmptyAnswer) {
		return "remote grader returned a malformed response", report.MalformedNotice()
	}
	switch llm.Classify(err) {
	case llm.KindRejected:
		msg := err.Error()
		var rejected *llm.RejectedError
		if errors.As(err, &rejected) {
			msg = rejected.Message
		}
		return "remote grader rejected the request: " + msg, report.RejectedNotice(msg)
	case llm.KindMalformed:
		return "remote grader returned a malformed response", report.MalformedNotice()
	default:
		if errors.Is(err, llm.ErrRemoteUnavailable) {
			return err.Error(), ""
		}
		return "remote grader unavailable: " + err.Error(), ""
	}
}
