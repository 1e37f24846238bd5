package main

import (
	"fmt"
	"os"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Tokenizer counts tokens for report sizing. Implementations wrap concrete
// tokenizer libraries behind a common interface.
type Tokenizer interface {
	CountTokens(text string) int
	Close()
}

type TiktokenWrapper struct {
	ttk *tiktoken.Tiktoken
}

func (w *TiktokenWrapper) CountTokens(text string) int {
	if w.ttk == nil {
		return 0
	}
	return len(w.ttk.EncodeOrdinary(text))
}

func (w *TiktokenWrapper) Close() {}

type HFTokenizerWrapper struct {
	htk *hf.Tokenizer
}

func (w *HFTokenizerWrapper) CountTokens(text string) int {
	if w.htk == nil {
		return 0
	}
	en, err := w.htk.EncodeSingle(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tokenizer failed to encode text: %v\n", err)
		return 0
	}
	return len(en.Tokens)
}

func (w *HFTokenizerWrapper) Close() {}

const defaultTiktokenModel = "gpt-4o"
const defaultHFModel = "gpt2"

// newTokenizer builds a Tokenizer from the configured type, model name and
// optional local tokenizer file.
func newTokenizer(tokType, model, tokenizerFile string) (Tokenizer, error) {
	switch strings.ToLower(tokType) {
	case "tiktoken":
		return loadTiktoken(model)
	case "huggingface":
		return loadHuggingFace(model, tokenizerFile)
	default:
		return nil, fmt.Errorf("unsupported tokenizer type: %s. Use 'tiktoken' or 'huggingface'", tokType)
	}
}

func loadTiktoken(model string) (Tokenizer, error) {
	if model == "" {
		model = defaultTiktokenModel
	}
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: tiktoken model '%s' not found, falling back to '%s': %v\n", model, defaultTiktokenModel, err)
		tke, err = tiktoken.EncodingForModel(defaultTiktokenModel)
		if err != nil {
			return nil, fmt.Errorf("failed to get tiktoken encoding for default model '%s': %w", defaultTiktokenModel, err)
		}
	}
	return &TiktokenWrapper{ttk: tke}, nil
}

func loadHuggingFace(model, tokenizerFile string) (Tokenizer, error) {
	if tokenizerFile != "" {
		ttk, err := pretrained.FromFile(tokenizerFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer from file %s: %w", tokenizerFile, err)
		}
		return &HFTokenizerWrapper{htk: ttk}, nil
	}

	if model == "" {
		model = defaultHFModel
	}
	// CachedPath downloads tokenizer.json from the Hub on first use.
	configFilePath, err := hf.CachedPath(model, "tokenizer.json")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache path for model %s: %w", model, err)
	}
	ttk, err := pretrained.FromFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pretrained tokenizer for model %s (from %s): %w", model, configFilePath, err)
	}
	return &HFTokenizerWrapper{htk: ttk}, nil
}
