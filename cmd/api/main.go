package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"coiflow/compliance"
	"coiflow/db"
	"coiflow/drive"
	"coiflow/extract"
	"coiflow/importer"
	"coiflow/roster"
	"coiflow/upload"
)

func main() {
	ctx := context.Background()

	connString := os.Getenv("DATABASE_URL")
	pool, err := db.NewPool(ctx, connString)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	docRepo := compliance.NewRepository(pool)
	rosterRepo := roster.NewRepository(pool)

	// The extractor and file-store adapters are deployment-specific; until
	// they are wired in, import and upload endpoints report the gap instead
	// of failing obscurely.
	var (
		extractor extract.Extractor   = unconfiguredExtractor{}
		lister    drive.Lister        = unconfiguredDrive{}
		reader    drive.ContentReader = unconfiguredDrive{}
	)

	server := &Server{
		documents: compliance.NewService(docRepo),
		roster:    roster.NewService(rosterRepo),
		imports:   importer.NewService(extractor, lister, reader, docRepo, rosterRepo),
		uploads:   upload.NewWorkflow(extractor, rosterRepo, docRepo),
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	log.Printf("coiflow api listening on %s", addr)
	if err := http.ListenAndServe(addr, server.routes()); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

var errNotConfigured = errors.New("api: document extractor not configured")

type unconfiguredExtractor struct{}

func (unconfiguredExtractor) Extract(context.Context, string, []byte) (extract.Fields, error) {
	return extract.Fields{}, errNotConfigured
}

type unconfiguredDrive struct{}

func (unconfiguredDrive) List(context.Context) ([]drive.File, error) {
	return nil, errNotConfigured
}

func (unconfiguredDrive) Read(context.Context, string) ([]byte, error) {
	return nil, errNotConfigured
}
