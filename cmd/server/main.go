// Command server runs the Slack ↔ LangGraph bridge: an HTTP server feeding
// an in-process dispatch queue drained by a single worker.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/config"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/dispatch"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/handler"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/langgraph"
	"github.com/langchain-ai/langgraph-messaging-integrations/pkg/server"
	slackclient "github.com/langchain-ai/langgraph-messaging-integrations/pkg/slack"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slackClient := slackclient.NewClient(cfg.SlackBotToken)
	if cfg.SlackBotUserID == "" {
		botID, err := slackClient.GetBotUserID(ctx)
		if err != nil {
			log.Fatalf("Failed to resolve bot user ID: %v", err)
		}
		cfg.SlackBotUserID = botID
		log.Printf("Resolved bot user ID: %s", botID)
	}

	lgClient := langgraph.NewClient(cfg.LangGraphURL, cfg.LangGraphAPIKey, cfg.LangGraphTimeout())

	queue := dispatch.NewQueue()
	processor := handler.NewTaskProcessor(lgClient, slackClient, handler.Options{
		AssistantID:    cfg.AssistantID,
		BotUserID:      cfg.SlackBotUserID,
		DeploymentURL:  cfg.DeploymentURL,
		DefaultChannel: cfg.SlackChannelID,
	})
	worker := dispatch.NewWorker(queue, processor)
	go worker.Run(ctx)

	srv := server.New(cfg, queue, lgClient)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("Server error: %v", err)
		}
	case sig := <-sigCh:
		log.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	// Stop the worker after the current task; tasks behind the sentinel are
	// lost, which is the documented best-effort contract.
	queue.Shutdown()
	select {
	case <-worker.Done():
		log.Printf("Worker drained, exiting")
	case <-shutdownCtx.Done():
		log.Printf("Shutdown timeout exceeded, exiting with a task in flight")
	}
}
