// Command dewey is a thin CLI over the dewey library, mostly useful for
// poking at a search engine instance during development. It is also the
// reference wiring of the library: one http.Client as the transport,
// optionally wrapped in the logging decorator.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/tylermeekel/dewey"
	"github.com/tylermeekel/dewey/middleware"
)

type CLI struct {
	URL     string `help:"Base URL of the search engine." default:"http://localhost:7700" env:"DEWEY_URL"`
	APIKey  string `help:"API key, sent as a bearer token." env:"DEWEY_API_KEY" name:"api-key"`
	Verbose bool   `help:"Log every HTTP request." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Index   IndexCmd   `cmd:"" help:"Manage indexes."`
	Doc     DocCmd     `cmd:"" help:"Manage documents."`
	Task    TaskCmd    `cmd:"" help:"Inspect asynchronous tasks."`
}

// app carries the shared dependencies into command Run methods via kong.Bind.
type app struct {
	client *dewey.Client
	doer   dewey.Doer
	out    io.Writer
}

// run executes op through the app's transport with a request timeout.
func run[T any](a *app, op dewey.Operation[T]) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return dewey.Do(ctx, a.doer, op)
}

// printJSON renders a command result for human consumption.
func printJSON(a *app, v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type IndexCmd struct {
	List   IndexListCmd   `cmd:"" help:"List indexes."`
	Get    IndexGetCmd    `cmd:"" help:"Show one index."`
	Create IndexCreateCmd `cmd:"" help:"Create an index."`
	Delete IndexDeleteCmd `cmd:"" help:"Delete an index."`
	Swap   IndexSwapCmd   `cmd:"" help:"Swap two indexes."`
}

type IndexListCmd struct {
	Offset int `help:"Pagination offset." default:"0"`
	Limit  int `help:"Page size." default:"20"`
}

func (c *IndexListCmd) Run(a *app) error {
	page, err := run(a, dewey.GetIndexes(a.client, dewey.GetIndexesOptions{Offset: c.Offset, Limit: c.Limit}))
	if err != nil {
		return err
	}
	return printJSON(a, page)
}

type IndexGetCmd struct {
	UID string `arg:"" help:"Index UID."`
}

func (c *IndexGetCmd) Run(a *app) error {
	index, err := run(a, dewey.GetIndex(a.client, c.UID))
	if err != nil {
		return err
	}
	return printJSON(a, index)
}

type IndexCreateCmd struct {
	UID        string `arg:"" help:"Index UID."`
	PrimaryKey string `help:"Primary key field." name:"primary-key"`
}

func (c *IndexCreateCmd) Run(a *app) error {
	task, err := run(a, dewey.CreateIndex(a.client, c.UID, c.PrimaryKey))
	if err != nil {
		return err
	}
	return printJSON(a, task)
}

type IndexDeleteCmd struct {
	UID string `arg:"" help:"Index UID."`
}

func (c *IndexDeleteCmd) Run(a *app) error {
	task, err := run(a, dewey.DeleteIndex(a.client, c.UID))
	if err != nil {
		return err
	}
	return printJSON(a, task)
}

type IndexSwapCmd struct {
	A      string `arg:"" help:"First index UID."`
	B      string `arg:"" help:"Second index UID."`
	Rename bool   `help:"Rename A to B instead of exchanging them."`
}

func (c *IndexSwapCmd) Run(a *app) error {
	pairs := [][2]string{{c.A, c.B}}
	op := dewey.SwapIndexes(a.client, pairs)
	if c.Rename {
		op = dewey.RenameIndexes(a.client, pairs)
	}
	task, err := run(a, op)
	if err != nil {
		return err
	}
	return printJSON(a, task)
}

type DocCmd struct {
	Get    DocGetCmd    `cmd:"" help:"Fetch one document by ID."`
	Fetch  DocFetchCmd  `cmd:"" help:"Fetch a page of documents."`
	Add    DocAddCmd    `cmd:"" help:"Add documents from a JSON file."`
	Delete DocDeleteCmd `cmd:"" help:"Delete one document by ID."`
}

// docID interprets an ID argument as an integer when it looks like one, so
// `dewey doc get movies 42` hits /documents/42 as a numeric key.
func docID(raw string) dewey.DocumentID {
	var n int64
	if _, err := fmt.Sscanf(raw, "%d", &n); err == nil && fmt.Sprintf("%d", n) == raw {
		return dewey.IntID(n)
	}
	return dewey.StringID(raw)
}

type DocGetCmd struct {
	Index string `arg:"" help:"Index UID."`
	ID    string `arg:"" help:"Document ID."`
}

func (c *DocGetCmd) Run(a *app) error {
	doc, err := run(a, dewey.GetDocument[json.RawMessage](a.client, c.Index, docID(c.ID)))
	if err != nil {
		return err
	}
	return printJSON(a, doc)
}

type DocFetchCmd struct {
	Index  string `arg:"" help:"Index UID."`
	Offset int    `help:"Pagination offset." default:"0"`
	Limit  int    `help:"Page size." default:"20"`
	Filter string `help:"Filter expression."`
}

func (c *DocFetchCmd) Run(a *app) error {
	opts := dewey.DefaultGetDocumentsOptions()
	opts.Offset = c.Offset
	opts.Limit = c.Limit
	if c.Filter != "" {
		opts.Filter = &c.Filter
	}
	page, err := run(a, dewey.GetDocuments[json.RawMessage](a.client, c.Index, opts))
	if err != nil {
		return err
	}
	return printJSON(a, page)
}

type DocAddCmd struct {
	Index      string `arg:"" help:"Index UID."`
	File       string `arg:"" help:"Path to a JSON array of documents." type:"existingfile"`
	PrimaryKey string `help:"Primary key field." name:"primary-key"`
	Wait       bool   `help:"Wait for the task to finish."`
}

func (c *DocAddCmd) Run(a *app) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("%s: expected a JSON array of documents: %w", c.File, err)
	}

	op, err := dewey.AddDocuments(a.client, c.Index, docs, c.PrimaryKey)
	if err != nil {
		return err
	}
	task, err := run(a, op)
	if err != nil {
		return err
	}
	if !c.Wait {
		return printJSON(a, task)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	full, err := dewey.WaitForTask(ctx, a.doer, a.client, task.TaskUID, time.Second)
	if err != nil {
		return err
	}
	return printJSON(a, full)
}

type DocDeleteCmd struct {
	Index string `arg:"" help:"Index UID."`
	ID    string `arg:"" help:"Document ID."`
}

func (c *DocDeleteCmd) Run(a *app) error {
	task, err := run(a, dewey.DeleteDocument(a.client, c.Index, docID(c.ID)))
	if err != nil {
		return err
	}
	return printJSON(a, task)
}

type TaskCmd struct {
	Get  TaskGetCmd  `cmd:"" help:"Show one task."`
	Wait TaskWaitCmd `cmd:"" help:"Wait for a task to reach a terminal status."`
}

type TaskGetCmd struct {
	UID int64 `arg:"" help:"Task UID."`
}

func (c *TaskGetCmd) Run(a *app) error {
	task, err := run(a, dewey.GetTask(a.client, c.UID))
	if err != nil {
		return err
	}
	return printJSON(a, task)
}

type TaskWaitCmd struct {
	UID      int64         `arg:"" help:"Task UID."`
	Interval time.Duration `help:"Polling interval." default:"1s"`
	Timeout  time.Duration `help:"Give up after this long." default:"5m"`
}

func (c *TaskWaitCmd) Run(a *app) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()
	task, err := dewey.WaitForTask(ctx, a.doer, a.client, c.UID, c.Interval)
	if err != nil {
		return err
	}
	return printJSON(a, task)
}

func main() {
	// A .env next to the binary may hold DEWEY_URL / DEWEY_API_KEY; absence
	// is fine.
	_ = godotenv.Load()

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("dewey"),
		kong.Description("CLI for a Meilisearch-compatible search engine."),
		kong.UsageOnError(),
	)

	client, err := dewey.NewClient(cli.URL, cli.APIKey)
	ctx.FatalIfErrorf(err)

	var doer dewey.Doer = &http.Client{}
	if cli.Verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		doer = middleware.Logging(doer, logger)
	}

	err = ctx.Run(&app{client: client, doer: doer, out: os.Stdout})
	ctx.FatalIfErrorf(err)
}
