package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubJudge struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubJudge) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return nil, ErrUnavailable
}

func TestCosineSymmetric(t *testing.T) {
	a := []float32{0.3, 0.7, 0.1}
	b := []float32{0.9, 0.2, 0.5}
	assert.Equal(t, Cosine(a, b), Cosine(b, a))
}

func TestCosineSelfIsOne(t *testing.T) {
	v := []float32{0.5, 1.5, 2.5}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosineClampsNegative(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float32{1, 0}, []float32{-1, 0}))
}

func TestCosineTruncatesMismatchedLengths(t *testing.T) {
	long := []float32{1, 0, 0}
	short := []float32{1, 0}
	assert.Equal(t, Cosine(short, short), Cosine(long, short))
	assert.Equal(t, Cosine(short, long), Cosine(long, short))
}

func TestCosineEmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, Cosine(nil, []float32{1}))
	assert.Equal(t, 0.0, Cosine([]float32{1}, nil))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
}

func TestSemanticParsesFirstInteger(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     float64
	}{
		{"bare number", "85", 85},
		{"with prose", "The relevance score is 72 out of 100.", 72},
		{"clamped high", "150", 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := NewEngine(nil, &stubJudge{response: tc.response}, zap.NewNop())
			got := engine.Semantic(context.Background(), "radar systems", "radar engineer", "job matching")
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSemanticFallsBackWhenJudgeUnavailable(t *testing.T) {
	judge := &stubJudge{err: ErrUnavailable}
	engine := NewEngine(nil, judge, zap.NewNop())

	got := engine.Semantic(context.Background(), "radar signal processing", "radar signal processing", "job matching")
	assert.Equal(t, fallbackTextSimilarity("radar signal processing", "radar signal processing"), got)
	assert.Equal(t, 1, judge.calls)
}

func TestSemanticFallsBackOnUnparseableResponse(t *testing.T) {
	engine := NewEngine(nil, &stubJudge{response: "no score here"}, zap.NewNop())
	got := engine.Semantic(context.Background(), "radar", "radar", "job matching")
	assert.Equal(t, fallbackTextSimilarity("radar", "radar"), got)
}

func TestFallbackBothEmptyIsNeutral(t *testing.T) {
	assert.Equal(t, 50.0, fallbackTextSimilarity("", ""))
}

func TestFallbackIdenticalTechnicalTexts(t *testing.T) {
	// Jaccard 1.0 scaled by 60, base 20, three technical keyword bonuses.
	got := fallbackTextSimilarity("radar signal processing", "radar signal processing")
	assert.Equal(t, 95.0, got)
}

func TestFallbackDisjointTexts(t *testing.T) {
	got := fallbackTextSimilarity("pottery weaving", "astronomy telescopes")
	assert.Equal(t, 20.0, got)
}

func TestFallbackStripsStopWords(t *testing.T) {
	// Shared stop words alone must not create overlap.
	got := fallbackTextSimilarity("the a an of", "the a an of")
	assert.Equal(t, 50.0, got)
}

func TestFallbackCapsAtHundred(t *testing.T) {
	text := "radar embedded vlsi fpga microwave antenna rf digital analog control systems software hardware"
	got := fallbackTextSimilarity(text, text)
	assert.Equal(t, 100.0, got)
}

func TestSemanticWithoutJudgeUsesHeuristic(t *testing.T) {
	engine := NewEngine(nil, nil, zap.NewNop())
	got := engine.Semantic(context.Background(), "", "", "job matching")
	assert.Equal(t, 50.0, got)
}
