package cmd

import (
	"fmt"

	"github.com/longkey1/dsadrill/internal/drill/config"
	"github.com/longkey1/dsadrill/internal/drill/conversation"
	"github.com/longkey1/dsadrill/internal/drill/persona"
	"github.com/longkey1/dsadrill/internal/drill/session"
	"github.com/longkey1/dsadrill/internal/gemini"
	"github.com/longkey1/dsadrill/internal/render"
	"go.uber.org/zap"
)

// loadConfig loads the configuration and warns when no API key is set.
// A missing key is not fatal: requests are sent and the API rejects them.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if !cfg.HasToken() {
		logger.Warn("no Gemini API key configured; set GEMINI_API_KEY or gemini_token")
	}
	return cfg, nil
}

// newSession wires a fresh conversation to the Gemini backend.
func newSession(cfg *config.Config) (*session.Session, persona.Persona) {
	p := persona.Default()
	client := gemini.NewClient(cfg, p.System, p.Temperature, logger.Named("gemini"))
	sess := session.NewSession(conversation.NewStore(), client, cfg.GetModel(), p.Welcome, logger.Named("session"))

	logger.Debug("session created",
		zap.String("session", sess.GetShortID()),
		zap.String("model", cfg.GetModel()),
		zap.String("base_url", cfg.GetBaseURL()))
	return sess, p
}

func newTerminal(p persona.Persona, echoUser bool) *render.Terminal {
	return render.NewTerminal(rootCmd.OutOrStdout(), render.Options{
		BotLabel:  p.Role,
		UserLabel: p.Student,
		Plain:     plain,
		EchoUser:  echoUser,
	}, logger.Named("render"))
}
