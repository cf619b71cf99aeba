package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/rag/schema"
)

func TestAnswerBuildsPromptAndSources(t *testing.T) {
	long := strings.Repeat("b", 250)
	idx := &fakeIndex{searchResults: []*schema.Chunk{
		{ID: "c1", Text: "alpha facts"},
		{ID: "c2", Text: long},
	}}
	model := &fakeLLM{answer: "42"}

	p := NewQueryPipeline(idx, model, 3, testLogger())
	resp, err := p.Answer(context.Background(), "doc-1", "what is the answer?")

	require.NoError(t, err)
	assert.Equal(t, "42", resp.Answer)
	assert.InDelta(t, 0.85, resp.Confidence, 1e-9)
	assert.Equal(t, 3, idx.lastTopK)

	// Snippets are the first 200 characters plus an ellipsis marker,
	// in retrieval order.
	require.Len(t, resp.Sources, 2)
	assert.Equal(t, "alpha facts...", resp.Sources[0])
	assert.Equal(t, strings.Repeat("b", 200)+"...", resp.Sources[1])

	require.Len(t, model.prompts, 1)
	prompt := model.prompts[0]
	assert.Contains(t, prompt, "alpha facts")
	assert.Contains(t, prompt, long)
	assert.Contains(t, prompt, "what is the answer?")
	assert.Contains(t, prompt, "just say that you don't know")
}

func TestAnswerNoChunksStillAsksLLM(t *testing.T) {
	idx := &fakeIndex{}
	model := &fakeLLM{answer: "I don't know."}

	p := NewQueryPipeline(idx, model, 3, testLogger())
	resp, err := p.Answer(context.Background(), "doc-1", "anything?")

	require.NoError(t, err)
	assert.Equal(t, "I don't know.", resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.Len(t, model.prompts, 1)
}

func TestAnswerSearchError(t *testing.T) {
	cause := errors.New("partition not loaded")
	idx := &fakeIndex{searchErr: cause}
	model := &fakeLLM{answer: "unused"}

	p := NewQueryPipeline(idx, model, 3, testLogger())
	_, err := p.Answer(context.Background(), "doc-1", "question")

	var qErr *QueryError
	require.ErrorAs(t, err, &qErr)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, model.prompts, "LLM must not be called after a retrieval failure")
}

func TestAnswerLLMError(t *testing.T) {
	idx := &fakeIndex{searchResults: []*schema.Chunk{{ID: "c1", Text: "context"}}}
	model := &fakeLLM{err: errors.New("rate limited")}

	p := NewQueryPipeline(idx, model, 3, testLogger())
	_, err := p.Answer(context.Background(), "doc-1", "question")

	var qErr *QueryError
	assert.ErrorAs(t, err, &qErr)
}
