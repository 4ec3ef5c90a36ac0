package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	catalogx "github.com/gitteach/agent-core/agent/catalog"
	constructorx "github.com/gitteach/agent-core/agent/constructor"
	orchestratorx "github.com/gitteach/agent-core/agent/orchestrator"
	promptx "github.com/gitteach/agent-core/agent/prompt"
	responderx "github.com/gitteach/agent-core/agent/responder"
	routerx "github.com/gitteach/agent-core/agent/router"
	configx "github.com/gitteach/agent-core/pkg/config"
	lfmx "github.com/gitteach/agent-core/pkg/lfm"
	_ "github.com/gitteach/agent-core/pkg/logger/autoload"
	webhookx "github.com/gitteach/agent-core/pkg/webhook"
	"github.com/gitteach/agent-core/toolkit"
)

type AppConfig struct {
	CatalogPath    string `envconfig:"CATALOG_PATH" default:"catalog.yaml"`
	GithubUsername string `envconfig:"GITHUB_USERNAME"`
	ReadmePath     string `envconfig:"README_PATH"`
	AuditURL       string `envconfig:"AUDIT_URL"`
}

func main() {
	utterance := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if utterance == "" {
		fmt.Fprintln(os.Stderr, "usage: agent <message>")
		os.Exit(2)
	}

	appCfg := configx.MustNew[AppConfig]("")

	cat, err := catalogx.Load(appCfg.CatalogPath)
	if err != nil {
		panic(err)
	}

	client := lfmx.MustNew(*configx.MustNew[lfmx.Config]("LFM"))
	prompts := promptx.MustLoadSet()

	router, err := routerx.New(client, cat, prompts)
	if err != nil {
		panic(err)
	}
	constructor, err := constructorx.New(client, cat, prompts)
	if err != nil {
		panic(err)
	}
	responder, err := responderx.New(client, prompts, *configx.MustNew[responderx.Config]("RESPONDER"))
	if err != nil {
		panic(err)
	}

	registry := toolkit.NewRegistry()
	widgets := &toolkit.WidgetInserter{
		Username:   appCfg.GithubUsername,
		ReadmePath: appCfg.ReadmePath,
	}
	if err := widgets.RegisterAll(registry); err != nil {
		panic(err)
	}
	github, err := toolkit.NewGithubTools(*configx.MustNew[toolkit.GithubConfig]("GITHUB"))
	if err != nil {
		panic(err)
	}
	if err := github.RegisterAll(registry); err != nil {
		panic(err)
	}

	var opts []orchestratorx.Option
	if appCfg.AuditURL != "" {
		opts = append(opts, orchestratorx.WithTurnRecorder(webhookx.MustNew(webhookx.Config{URL: appCfg.AuditURL})))
	}

	agent, err := orchestratorx.New(router, constructor, registry, responder, opts...)
	if err != nil {
		panic(err)
	}

	turn, err := agent.Run(context.Background(), utterance)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(turn.FinalMessage)
}
