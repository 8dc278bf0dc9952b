package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/flashforge/flashforge-api/internal/config"
	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/generation"
	"github.com/flashforge/flashforge-api/internal/mocks"
	"github.com/flashforge/flashforge-api/internal/service"
	"github.com/flashforge/flashforge-api/internal/service/auth"
	"github.com/flashforge/flashforge-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func runCLI(t *testing.T, args []string, stdin string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, []string{"hash-password", "--cost", "4"}, "correct-horse\n")

	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"), "unexpected hash %q", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct-horse")))
}

func TestHashPassword_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stdin string
		err   error
	}{
		{name: "empty", stdin: "", err: nil},
		{name: "too short", stdin: "short\n", err: domain.ErrPasswordTooShort},
		{name: "too long", stdin: strings.Repeat("x", 73) + "\n", err: domain.ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := runCLI(t, []string{"hash-password"}, tt.stdin)
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestReadPassword_StripsCRLF(t *testing.T) {
	t.Parallel()

	password, err := readPassword(strings.NewReader("correct-horse\r\nignored\n"))

	require.NoError(t, err)
	assert.Equal(t, "correct-horse", password)
}

func TestMigrate_ArgumentValidation(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, []string{"migrate"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one migration command")

	_, err = runCLI(t, []string{"migrate", "sideways"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown migration command "sideways"`)
}

func TestAccount_RequiresUsername(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, []string{"account", "subscribe"}, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestSetSubscription(t *testing.T) {
	t.Parallel()

	account, err := domain.NewAccount("patron", "correct-horse", time.Now().Add(-60*24*time.Hour), 24*time.Hour)
	require.NoError(t, err)
	accounts := service.NewAccountService(
		mocks.NewMockAccountStore(account),
		auth.NewBcryptHasher(bcrypt.MinCost),
		&mocks.MockJWTService{},
		24*time.Hour,
		slog.Default(),
	)

	var out bytes.Buffer
	require.NoError(t, setSubscription(context.Background(), &out, accounts, "Patron", true))
	assert.Contains(t, out.String(), "subscribed=true")
	assert.Contains(t, out.String(), "generation_allowed=true")

	out.Reset()
	require.NoError(t, setSubscription(context.Background(), &out, accounts, "patron", false))
	assert.Contains(t, out.String(), "subscribed=false")
	assert.Contains(t, out.String(), "generation_allowed=false")

	err = setSubscription(context.Background(), &out, accounts, "nobody", true)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestNewBackends(t *testing.T) {
	t.Parallel()

	base := func() *config.Config {
		return &config.Config{
			LLM: config.LLMConfig{
				Provider:     providerOpenAI,
				OpenAIAPIKey: "sk-test",
				OpenAIModel:  "gpt-4o",
				GeminiModel:  "gemini-2.0-flash",
			},
			Transcription: config.TranscriptionConfig{Provider: providerOpenAI, Model: "whisper-1"},
		}
	}

	t.Run("openai", func(t *testing.T) {
		t.Parallel()
		generator, transcriber, err := newBackends(context.Background(), base())
		require.NoError(t, err)
		assert.NotNil(t, generator)
		assert.NotNil(t, transcriber)
	})

	t.Run("gemini without key", func(t *testing.T) {
		t.Parallel()
		cfg := base()
		cfg.LLM.Provider = providerGemini
		_, _, err := newBackends(context.Background(), cfg)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("gemini transcription without key", func(t *testing.T) {
		t.Parallel()
		cfg := base()
		cfg.Transcription.Provider = providerGemini
		_, _, err := newBackends(context.Background(), cfg)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		cfg := base()
		cfg.LLM.Provider = "bard"
		_, _, err := newBackends(context.Background(), cfg)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}

func TestGeminiTranscriptionModel(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		LLM:           config.LLMConfig{GeminiModel: "gemini-2.0-flash"},
		Transcription: config.TranscriptionConfig{Model: "whisper-1"},
	}
	assert.Equal(t, "gemini-2.0-flash", geminiTranscriptionModel(cfg))

	cfg.Transcription.Model = "gemini-2.5-flash"
	assert.Equal(t, "gemini-2.5-flash", geminiTranscriptionModel(cfg))
}

func TestNewFlashcardService_RejectsUnknownDetail(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{LLM: config.LLMConfig{MaxOutputTokens: 100, ImageDetail: "ultra"}}

	_, err := newFlashcardService(cfg, &mocks.MockGenerator{}, &mocks.MockTranscriber{})

	assert.ErrorIs(t, err, domain.ErrValidation)
}
