package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/knowseek/knowseek/internal/pace"
)

type scriptedBackend struct {
	// failBlocks holds 1-based indices of blocks that must fail.
	failBlocks map[int]bool
	calls      int
}

func (s *scriptedBackend) TranslateBlock(_ context.Context, text string) (string, error) {
	s.calls++
	if s.failBlocks[s.calls] {
		return "", errors.New("upstream unavailable")
	}
	return "Ü:" + text, nil
}

func testTranslator(b Backend, blockSize int) *Translator {
	t := NewTranslator(b, blockSize)
	t.SuccessJitter = pace.Jitter{}
	t.FailureJitter = pace.Jitter{}
	return t
}

func TestSplitBlocks_KeepsSentencesWhole(t *testing.T) {
	text := "Alpha alpha alpha. Beta beta beta. Gamma gamma gamma"
	blocks := SplitBlocks(text, 25)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %q", len(blocks), blocks)
	}
	for _, b := range blocks {
		if !strings.HasSuffix(b, ". ") {
			t.Fatalf("block must end at a sentence boundary: %q", b)
		}
		if len(b) > 25 {
			t.Fatalf("block exceeds size: %q", b)
		}
	}
}

func TestSplitBlocks_OversizedSentenceStaysWhole(t *testing.T) {
	long := strings.Repeat("word ", 20) + "end"
	blocks := SplitBlocks(long+". Short", 30)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if !strings.Contains(blocks[0], "word word") {
		t.Fatalf("oversized sentence must stay in one block: %q", blocks[0])
	}
}

func TestTranslate_AllBlocksSucceed(t *testing.T) {
	b := &scriptedBackend{}
	tr := testTranslator(b, 20)
	got := tr.Translate(context.Background(), "One one one. Two two two")
	if !strings.Contains(got, "Ü:One one one. ") || !strings.Contains(got, "Ü:Two two two. ") {
		t.Fatalf("expected both blocks translated: %q", got)
	}
	if strings.HasPrefix(got, FailurePrefix) {
		t.Fatalf("unexpected failure marker: %q", got)
	}
}

func TestTranslate_PartialFailureKeepsSourceBlock(t *testing.T) {
	b := &scriptedBackend{failBlocks: map[int]bool{1: true}}
	tr := testTranslator(b, 20)
	got := tr.Translate(context.Background(), "One one one. Two two two")
	if !strings.Contains(got, "One one one. ") {
		t.Fatalf("failed block must degrade to source text: %q", got)
	}
	if !strings.Contains(got, "Ü:Two two two. ") {
		t.Fatalf("surviving block must still be translated: %q", got)
	}
	if strings.HasPrefix(got, FailurePrefix) {
		t.Fatalf("partial failure must not produce the all-failed marker: %q", got)
	}
}

func TestTranslate_AllFailedEmbedsOriginal(t *testing.T) {
	b := &scriptedBackend{failBlocks: map[int]bool{1: true, 2: true}}
	tr := testTranslator(b, 20)
	original := "One one one. Two two two"
	got := tr.Translate(context.Background(), original)
	if !strings.HasPrefix(got, FailurePrefix) {
		t.Fatalf("expected failure marker prefix: %q", got)
	}
	if !strings.Contains(got, original) {
		t.Fatalf("all-failed result must embed the original text: %q", got)
	}
}

func TestTranslate_EmptyInput(t *testing.T) {
	tr := testTranslator(&scriptedBackend{}, 100)
	if got := tr.Translate(context.Background(), "  \n "); got != "" {
		t.Fatalf("blank input must yield empty output, got %q", got)
	}
}

func TestTranslate_CancelledMidwayDegradesRemainder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := &cancellingBackend{cancel: cancel}
	tr := testTranslator(b, 20)
	got := tr.Translate(ctx, "One one one. Two two two. Three three")
	if !strings.Contains(got, "Ü:One one one. ") {
		t.Fatalf("first block must be translated: %q", got)
	}
	if !strings.Contains(got, "Two two two. ") || !strings.Contains(got, "Three three. ") {
		t.Fatalf("remaining blocks must degrade to source text: %q", got)
	}
	if b.calls != 1 {
		t.Fatalf("no backend call may follow cancellation, got %d", b.calls)
	}
}

// cancellingBackend cancels the context after its first successful block.
type cancellingBackend struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingBackend) TranslateBlock(_ context.Context, text string) (string, error) {
	c.calls++
	c.cancel()
	return "Ü:" + text, nil
}

func TestOpenAIBackend_RejectsBadLanguage(t *testing.T) {
	if _, err := NewOpenAIBackend(nil, "m", "not a tag!"); err == nil {
		t.Fatal("expected parse error for invalid language tag")
	}
}

type fakeChat struct {
	lastReq openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Content: " Übersetzt. "}},
	}}, nil
}

func TestOpenAIBackend_BuildsGermanPrompt(t *testing.T) {
	chat := &fakeChat{}
	b, err := NewOpenAIBackend(chat, "test-model", "de")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := b.TranslateBlock(context.Background(), "Hello world.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Übersetzt." {
		t.Fatalf("expected trimmed completion, got %q", got)
	}
	if chat.lastReq.Model != "test-model" || chat.lastReq.Temperature != 0 {
		t.Fatalf("unexpected request shape: %+v", chat.lastReq)
	}
	if len(chat.lastReq.Messages) != 2 || !strings.Contains(chat.lastReq.Messages[0].Content, "German") {
		t.Fatalf("system prompt must name the target language: %+v", chat.lastReq.Messages)
	}
}
