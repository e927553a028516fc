// Command seed imports products and categories into Firestore.
//
//	seed products --file catalog.yaml [--mirror-images]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"foodstore/internal/adapter/repository"
	"foodstore/internal/infrastructure/firebase"
	"foodstore/internal/infrastructure/storage"
	"foodstore/internal/seed"
	"foodstore/pkg/config"
	"foodstore/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Load catalog data into the storefront database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newProductsCmd())
	return root
}

func newProductsCmd() *cobra.Command {
	var (
		file         string
		mirrorImages bool
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Import products, their reviews and categories from a YAML or JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runProducts(ctx, file, mirrorImages, dryRun)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file (.yaml, .yml or .json)")
	cmd.Flags().BoolVar(&mirrorImages, "mirror-images", false, "copy product images into STORAGE_BUCKET")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the catalog without writing")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runProducts(ctx context.Context, file string, mirrorImages, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Configure(cfg.LogLevel, "foodstore-seed")

	catalog, err := seed.LoadFile(file)
	if err != nil {
		return err
	}

	if dryRun {
		for _, rec := range catalog.Products {
			if _, err := rec.Entity(func() string { return "dry-run" }); err != nil {
				return err
			}
		}
		fmt.Printf("%s: %d products, %d categories look valid\n", file, len(catalog.Products), len(catalog.Categories))
		return nil
	}

	opt, err := firebase.CredentialsOption(cfg)
	if err != nil {
		return err
	}
	client, err := firebase.NewFirestore(ctx, cfg, opt)
	if err != nil {
		return err
	}
	defer client.Close()

	var mirror seed.ImageMirror
	if mirrorImages {
		m, err := storage.NewImageMirror(ctx, cfg.StorageBucket, opt)
		if err != nil {
			return err
		}
		defer m.Close()
		mirror = m
	}

	importer := seed.NewImporter(
		repository.NewFirestoreProductRepository(client),
		repository.NewFirestoreCategoryRepository(client),
		mirror,
	)

	sum, err := importer.Import(ctx, catalog)
	if err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"categories": sum.Categories,
		"products":   sum.Products,
		"reviews":    sum.Reviews,
		"images":     sum.Images,
	}).Info("catalog imported")
	return nil
}
