// Command reconcile runs the correlation engine offline over a directory of
// batches, without a database or object storage. Each subdirectory of the
// input directory is one batch: its *.txt files are the extracted document
// texts, and an optional metadata.json carries the email context.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"concil/internal/companies"
	"concil/internal/domain"
	"concil/internal/engine"
	"concil/internal/export"
	"concil/internal/recognizer"
)

func main() {
	inputDir := flag.String("input", "", "directory of batch subdirectories")
	csvOut := flag.String("csv", "report.csv", "consolidated CSV report path")
	xlsxOut := flag.String("xlsx", "", "optional XLSX report path")
	companiesFile := flag.String("companies", "", "optional company registry JSON")
	flag.Parse()

	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	registry, err := companies.LoadFile(*companiesFile)
	if err != nil {
		log.Fatalf("loading company registry: %v", err)
	}

	batches, err := loadBatches(*inputDir, registry)
	if err != nil {
		log.Fatalf("loading batches: %v", err)
	}
	if len(batches) == 0 {
		log.Fatalf("no batch directories found under %s", *inputDir)
	}

	eng := engine.New()
	for _, batch := range batches {
		if _, err := eng.Resolve(batch); err != nil {
			log.Fatalf("resolving batch %s: %v", batch.ID, err)
		}
		log.Printf("batch %s: %d records, status %s", batch.ID, len(batch.Documents), batch.Correlation.Status)
	}

	if err := writeCSV(*csvOut, batches); err != nil {
		log.Fatalf("writing CSV report: %v", err)
	}
	log.Printf("CSV report written to %s", *csvOut)

	if *xlsxOut != "" {
		if err := writeXLSX(*xlsxOut, batches); err != nil {
			log.Fatalf("writing XLSX report: %v", err)
		}
		log.Printf("XLSX report written to %s", *xlsxOut)
	}
}

func loadBatches(root string, registry *companies.Registry) ([]*domain.Batch, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	set := recognizer.DefaultSet()
	var batches []*domain.Batch
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		batch, err := loadBatch(filepath.Join(root, entry.Name()), set, registry)
		if err != nil {
			return nil, fmt.Errorf("batch %s: %w", entry.Name(), err)
		}
		batches = append(batches, batch)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].ID.String() < batches[j].ID.String() })
	return batches, nil
}

func loadBatch(dir string, set []recognizer.Recognizer, registry *companies.Registry) (*domain.Batch, error) {
	batch := &domain.Batch{ID: uuid.New()}

	metaPath := filepath.Join(dir, "metadata.json")
	if data, err := os.ReadFile(metaPath); err == nil {
		var email domain.EmailContext
		if err := json.Unmarshal(data, &email); err != nil {
			return nil, fmt.Errorf("parsing metadata.json: %w", err)
		}
		batch.Email = &email
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		text := string(data)
		doc := recognizer.Recognize(set, name, text)
		if doc.Company == "" && registry != nil {
			if c := registry.FindInText(text); c != nil {
				doc.Company = c.Name
			}
		}
		batch.Documents = append(batch.Documents, doc)
	}
	return batch, nil
}

func writeCSV(path string, batches []*domain.Batch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(export.BOM); err != nil {
		return err
	}
	w := export.NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteBatches(batches); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(path string, batches []*domain.Batch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteXLSX(f, batches)
}
