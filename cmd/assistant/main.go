package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	assistant "github.com/patrolscribe/assistant"
	"github.com/patrolscribe/assistant/completer"
	completeropenai "github.com/patrolscribe/assistant/completer/openai"
	"github.com/patrolscribe/assistant/corrector"
	correctoropenai "github.com/patrolscribe/assistant/corrector/openai"
	"github.com/patrolscribe/assistant/embedder"
	embedderopenai "github.com/patrolscribe/assistant/embedder/openai"
	"github.com/patrolscribe/assistant/retriever"
	memoryretriever "github.com/patrolscribe/assistant/retriever/memory"
	postgresretriever "github.com/patrolscribe/assistant/retriever/postgres"
	serverhttp "github.com/patrolscribe/assistant/server/http"
	"github.com/patrolscribe/assistant/store"
	memorystore "github.com/patrolscribe/assistant/store/memory"
	postgresstore "github.com/patrolscribe/assistant/store/postgres"
)

type Globals struct {
	APIKey      string `help:"OpenAI API key" env:"OPENAI_API_KEY"`
	Model       string `help:"Model identifier for completions" default:"gpt-3.5-turbo"`
	Embedder    string `help:"Model identifier for vector embeddings" default:"text-embedding-ada-002"`
	AssistantId string `help:"Assistant identifier for correction runs" env:"OPENAI_ASSISTANT_ID"`
	Postgres    string `help:"Postgres location; empty runs fully in memory" env:"POSTGRES_URL"`
}

type ServeCmd struct {
	Address string `help:"Listen address" default:":8080"`
}

func (c *ServeCmd) Run(g *Globals) error {
	a := build(g)

	srv := serverhttp.NewServer(
		a,
		serverhttp.WithAddress(c.Address),
		serverhttp.WithMiddleware(serverhttp.RequestLogger),
	)

	slog.Info("serving", "address", c.Address)

	return srv.Start()
}

type IngestCmd struct {
	Files []string `arg:"" help:"Reference text files to load into the corpus"`
}

func (c *IngestCmd) Run(g *Globals) error {
	ctx := context.Background()
	a := build(g)

	total := 0
	for _, path := range c.Files {
		inserted, err := a.IngestFile(ctx, path)
		if err != nil {
			return err
		}
		slog.Info("ingested", "file", path, "chunks", inserted)
		total += inserted
	}

	fmt.Printf("inserted %d chunks\n", total)

	return nil
}

type CorrectCmd struct {
	Text string `arg:"" help:"Text to correct"`
}

func (c *CorrectCmd) Run(g *Globals) error {
	a := build(g)

	result, err := a.Correct(context.Background(), c.Text)
	if err != nil {
		return err
	}

	fmt.Println(result)

	return nil
}

var cli struct {
	Globals

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP server"`
	Ingest  IngestCmd  `cmd:"" help:"Load reference files into the retrieval corpus"`
	Correct CorrectCmd `cmd:"" help:"Run a one-shot correction against the assistant service"`
}

func build(g *Globals) *assistant.Assistant {
	emb := embedderopenai.NewEmbedder(
		embedder.WithApiKey(g.APIKey),
		embedder.WithModel(g.Embedder),
	)

	comp := completeropenai.NewCompleter(
		completer.WithApiKey(g.APIKey),
		completer.WithModel(g.Model),
	)

	corr := correctoropenai.NewCorrector(
		corrector.WithApiKey(g.APIKey),
		corrector.WithAssistantId(g.AssistantId),
	)

	var ret retriever.Retriever
	var sessionStore store.SessionStore
	var elementStore store.ElementStore
	var penalCodeStore store.PenalCodeStore

	if len(g.Postgres) > 0 {
		ret = postgresretriever.NewRetriever(retriever.WithLocation(g.Postgres))
		pg := postgresstore.NewStore(store.WithLocation(g.Postgres))
		sessionStore, elementStore, penalCodeStore = pg, pg, pg
	} else {
		ret = memoryretriever.NewRetriever()
		mem := memorystore.NewStore()
		sessionStore, elementStore, penalCodeStore = mem, mem, mem
	}

	return assistant.New(emb, comp, corr, ret, sessionStore, elementStore, penalCodeStore, assistant.Prompts{})
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	kctx := kong.Parse(&cli)

	if err := kctx.Run(&cli.Globals); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
