package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"portfolio-backend/internal/llm"
)

// AssistantFile is the optional TOML file that shapes the assistant: its
// persona, the static context block and extra providers.
type AssistantFile struct {
	Persona       string           `toml:"persona"`
	Context       string           `toml:"context"`
	CannedReplies []string         `toml:"canned_replies"`
	Providers     []ProviderConfig `toml:"providers"`
}

// LoadAssistantFile decodes path. A missing file yields an empty
// AssistantFile and no error.
func LoadAssistantFile(path string) (*AssistantFile, error) {
	file := &AssistantFile{}
	if path == "" {
		return file, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return file, nil
	}

	if _, err := toml.DecodeFile(path, file); err != nil {
		return nil, fmt.Errorf("failed to decode assistant file %s: %w", path, err)
	}
	return file, nil
}

// applyAssistantFile merges file into c. An unset context falls back to
// llm.DefaultContext. File providers are appended after environment
// providers; those whose key variable is unset are skipped.
func (c *Config) applyAssistantFile(file *AssistantFile) {
	c.Persona = strings.TrimSpace(file.Persona)
	c.ContextBlock = strings.TrimSpace(file.Context)
	if c.ContextBlock == "" {
		c.ContextBlock = llm.DefaultContext
	}
	c.CannedReplies = file.CannedReplies

	for _, p := range file.Providers {
		if p.Kind == "" {
			p.Kind = string(llm.KindOpenAI)
		}
		p.APIKey = os.Getenv(p.APIKeyEnv)
		if p.APIKeyEnv == "" || p.APIKey == "" {
			c.SkippedProviders = append(c.SkippedProviders, p.Name)
			continue
		}
		c.Providers = append(c.Providers, p)
	}
}
