package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"docintel/internal/llm"
	"docintel/internal/rag/interfaces"
	"docintel/pkg/logger"
)

// answerPrompt instructs the model to answer strictly from the retrieved
// context and to admit when it does not know.
const answerPrompt = `Use the following pieces of context to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.

Context: %s

Question: %s

Answer:`

// snippetLength is how many characters of each source chunk are echoed back.
const snippetLength = 200

// defaultConfidence is reported with every answer. Retrieval scores are not
// calibrated across embedding providers, so a fixed estimate is used.
const defaultConfidence = 0.85

// Response is the outcome of answering a question against one document.
type Response struct {
	Answer     string
	Sources    []string
	Confidence float64
}

// QueryPipeline retrieves the most relevant chunks of a document and asks
// the LLM to answer from them.
type QueryPipeline struct {
	index     interfaces.VectorIndex
	llm       llm.LLM
	topK      int
	tokenizer *tiktoken.Tiktoken
	log       *logger.Logger
}

// NewQueryPipeline creates a new QueryPipeline. topK is the number of
// chunks retrieved per question.
func NewQueryPipeline(index interfaces.VectorIndex, model llm.LLM, topK int, log *logger.Logger) *QueryPipeline {
	// cl100k_base covers gpt-3.5-turbo and the text-embedding families.
	// Token counts are informational only, so a tokenizer init failure
	// just disables them.
	tokenizer, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.Warn(fmt.Sprintf("Failed to init tokenizer, prompt token counts disabled: %v", err))
		tokenizer = nil
	}

	return &QueryPipeline{
		index:     index,
		llm:       model,
		topK:      topK,
		tokenizer: tokenizer,
		log:       log,
	}
}

// Answer retrieves the topK chunks of the document most similar to the
// question and generates a grounded answer. Failures in retrieval or
// generation surface as QueryError.
func (p *QueryPipeline) Answer(ctx context.Context, docID, question string) (*Response, error) {
	p.log.Info(fmt.Sprintf("Answering question against document %s", docID))

	// 1. Retrieve the most similar chunks
	chunks, err := p.index.Search(ctx, docID, question, p.topK)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to search vector index: %v", err))
		return nil, &QueryError{Err: err}
	}
	p.log.Info(fmt.Sprintf("Retrieved %d chunks for document %s", len(chunks), docID))

	// 2. Build the prompt from the retrieved context
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	prompt := fmt.Sprintf(answerPrompt, strings.Join(texts, "\n\n"), question)

	if p.tokenizer != nil {
		tokens := p.tokenizer.Encode(prompt, nil, nil)
		p.log.WithPayload(map[string]interface{}{
			"prompt_tokens": len(tokens),
			"chunks":        len(chunks),
		}).Debug("Built QA prompt")
	}

	// 3. Generate the answer
	answer, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		p.log.Error(fmt.Sprintf("LLM failed to generate answer: %v", err))
		return nil, &QueryError{Err: err}
	}

	// 4. Collect source snippets in retrieval order
	sources := make([]string, len(chunks))
	for i, chunk := range chunks {
		sources[i] = snippet(chunk.Text)
	}

	return &Response{
		Answer:     answer,
		Sources:    sources,
		Confidence: defaultConfidence,
	}, nil
}

// snippet returns the first snippetLength characters of text with an
// ellipsis marker appended.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) > snippetLength {
		runes = runes[:snippetLength]
	}
	return string(runes) + "..."
}
