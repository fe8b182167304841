package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/abstract-retrieval/internal/engine"
	"github.com/gcbaptista/abstract-retrieval/internal/indexing"
	"github.com/gcbaptista/abstract-retrieval/internal/loader"
	"github.com/gcbaptista/abstract-retrieval/internal/persistence"
	"github.com/gcbaptista/abstract-retrieval/internal/tokenizer"
	"github.com/gcbaptista/abstract-retrieval/services"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Run one query against a collection directory and print the hits",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("query cannot be empty or whitespace-only")
		}
		modeFlag, _ := cmd.Flags().GetString("mode")
		mode, err := services.ParseSearchMode(modeFlag)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		settings, dir, err := collectionSettings(cmd)
		if err != nil {
			return err
		}
		invIndex, catalog, err := loader.Load(cmd.Context(), settings, dir)
		if err != nil {
			return err
		}
		collection, err := engine.NewCollection(settings, invIndex, catalog)
		if err != nil {
			return err
		}

		result, err := collection.Search(services.SearchQuery{QueryString: query, Mode: mode})
		if err != nil {
			return err
		}
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		return printHits(cmd.OutOrStdout(), result)
	},
}

// printHits writes one row per hit, with the score column in vector mode.
func printHits(w io.Writer, result services.SearchResult) error {
	if result.Total == 0 {
		_, err := fmt.Fprintln(w, "No documents found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if result.Mode == services.ModeVector {
		fmt.Fprintln(tw, "DOC ID\tSCORE\tTITLE\tAUTHORS")
	} else {
		fmt.Fprintln(tw, "DOC ID\tTITLE\tAUTHORS")
	}
	for _, hit := range result.Hits {
		if hit.Score != nil {
			fmt.Fprintf(tw, "%s\t%.4f\t%s\t%s\n", hit.DocumentID, *hit.Score, hit.Title, hit.Authors)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", hit.DocumentID, hit.Title, hit.Authors)
		}
	}
	fmt.Fprintf(tw, "\n%d document(s), %dµs\n", result.Total, result.Took)
	return tw.Flush()
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the inverted index JSON from a collection's metadata and abstracts",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, dir, err := collectionSettings(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = filepath.Join(dir, settings.IndexFile)
		}
		workers, _ := cmd.Flags().GetInt("workers")

		catalog, err := loader.LoadCatalog(cmd.Context(), settings, dir)
		if err != nil {
			return err
		}
		service, err := indexing.NewService(tokenizer.New(settings.StopWords))
		if err != nil {
			return err
		}

		cfg := indexing.DefaultBulkIndexingConfig()
		if workers > 0 {
			cfg.WorkerCount = workers
		}
		invIndex, err := indexing.NewBulkIndexer(service, cfg).Build(catalog.Documents())
		if err != nil {
			return err
		}

		if err := persistence.SaveJSON(out, invIndex.Raw()); err != nil {
			return err
		}
		slog.Info("Inverted index written", "path", out, "terms", invIndex.Len(), "documents", catalog.Len())
		return nil
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Load a collection directory and store it as a snapshot the server restores at startup",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, dir, err := collectionSettings(cmd)
		if err != nil {
			return err
		}
		dataDir, _ := cmd.Flags().GetString("data-dir")
		if dataDir == "" {
			return fmt.Errorf("--data-dir is required")
		}

		eng := engine.NewEngine(dataDir)
		for _, name := range eng.ListCollections() {
			if name == settings.Name {
				slog.Info("Replacing existing snapshot", "collection", name)
				if err := eng.DeleteCollection(name); err != nil {
					return err
				}
			}
		}
		if err := eng.LoadCollectionContext(cmd.Context(), settings, dir); err != nil {
			return err
		}
		if err := eng.PersistCollection(settings.Name); err != nil {
			return err
		}
		slog.Info("Snapshot written", "collection", settings.Name, "data_dir", dataDir)
		return nil
	},
}

func init() {
	collectionFlags(searchCmd)
	searchCmd.Flags().String("mode", "boolean", "Retrieval model: boolean or vector")
	searchCmd.Flags().Bool("json", false, "Print the result as JSON")

	collectionFlags(indexCmd)
	indexCmd.Flags().String("out", "", "Output path (default: the index file inside --dir)")
	indexCmd.Flags().Int("workers", 0, "Tokenizing workers (default: number of CPUs)")

	collectionFlags(snapshotCmd)
	snapshotCmd.Flags().String("data-dir", "./retrieval_data", "Snapshot directory")
}
