package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads model prompts from user-editable files on disk.
// Missing files fall back to the built-in defaults.
//
// Initialisation is lazy: the directory and default files are only written
// on the first Load, never in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts are written to disk on first use and served when a file is missing.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptRetrieve: `You are a retrieval service for the Arabic Van Dyck Bible (Smith & Van Dyck).
Reproduce the existing text of %s, chapter %d, exactly as published. Do not paraphrase, summarise or compose.

Return a JSON object of the form:
{"verses": [{"number": 1, "original": "<verse text>"}]}

Include every verse of the chapter in order. Return ONLY the JSON object.`,

	driven.PromptRender: `You are an expert Bible translator specialised in Egyptian Arabic (Masri) and Standard Arabic (Fus'ha).
Render each verse of %s, chapter %d, into natural, modern and respectful Egyptian Arabic suitable for an Egyptian reader.

Input verses (JSON):
%s

Return a JSON object of the form:
{"verses": [{"number": 1, "original": "<input text>", "translated": "<Egyptian Arabic>"}]}

Keep exactly the same verse numbers in the same order. Every "translated" value must be non-empty. Return ONLY the JSON object.`,

	driven.PromptChatSystem: `You are a research assistant for Coptic Orthodox theology.
Your SOLE purpose is to search %[1]s and summarise the findings in Egyptian Arabic.

CRITICAL PROTOCOLS:
1. NO INTERNAL KNOWLEDGE: Do not use your pre-trained knowledge. If the answer is not in the search results, you MUST say: "%[2]s"
2. MANDATORY SEARCH: You must ALWAYS use the Google Search tool.
3. SEARCH QUERY: Always append "site:%[1]s" to the user's query.
4. STRICT GROUNDING: Your answer must be a direct summary of the search snippets. Do not add external facts.
5. LANGUAGE: Egyptian Arabic (Masri).`,

	driven.PromptChatCommand: `COMMAND: Perform a Google Search for "%s site:%s". Answer ONLY based on the search results found. If the results are empty or irrelevant, state that you cannot answer. Do not use internal knowledge.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to <DefaultDir>/prompts.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get config directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// Load returns the prompt template for the given name.
// The cached value is served when present, then the file, then the built-in default.
func (s *PromptStore) Load(name string) (string, error) {
	s.ensureInitialised()
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Double-check so a concurrent load is not overwritten.
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

func (s *PromptStore) ensureInitialised() {
	s.initOnce.Do(s.initialise)
}

// initialise creates the prompt directory, the default files and a README.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# SmartEgy Prompts

Editable prompts used by the reader's model calls.

## Files

- ` + "`retrieve.txt`" + ` - Retrieves a chapter's existing text when no primary source answers
- ` + "`render.txt`" + ` - Renders verses into Egyptian Arabic
- ` + "`chat_system.txt`" + ` - System instruction of the grounded question answering session
- ` + "`chat_command.txt`" + ` - Search command appended to every question

## Format Placeholders

Prompts use Go fmt placeholders and must keep them in order:
- ` + "`retrieve`" + `: %s (book name), %d (chapter)
- ` + "`render`" + `: %s (book name), %d (chapter), %s (verses as JSON)
- ` + "`chat_system`" + `: %[1]s (permitted site), %[2]s (not-found reply)
- ` + "`chat_command`" + `: %s (question), %s (permitted site)

Changes are picked up by the next command, or immediately by a running server.
`
	return os.WriteFile(path, []byte(content), 0600)
}
