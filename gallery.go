package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ceph-tracer/internal/gallery"
	"ceph-tracer/internal/image"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Manage the image gallery",
}

var galleryAddCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Upload images to the gallery",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGalleryAdd,
}

var galleryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List gallery images, newest first",
	Args:    cobra.NoArgs,
	RunE:    runGalleryList,
}

var galleryRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete images from the gallery",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGalleryRm,
}

func init() {
	rootCmd.AddCommand(galleryCmd)
	galleryCmd.AddCommand(galleryAddCmd, galleryListCmd, galleryRmCmd)
}

func withGallery(fn func(ctx context.Context, store *gallery.Store) error) error {
	store, err := openGallery()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(context.Background(), store)
}

func runGalleryAdd(cmd *cobra.Command, args []string) error {
	return withGallery(func(ctx context.Context, store *gallery.Store) error {
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			rec, err := store.Add(ctx, filepath.Base(path), image.SniffType(data), data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", rec.ID, rec.Name)
		}
		return nil
	})
}

func runGalleryList(cmd *cobra.Command, args []string) error {
	return withGallery(func(ctx context.Context, store *gallery.Store) error {
		items, err := store.List(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Gallery is empty.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tUPLOADED")
		for _, it := range items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", it.ID, it.Name, it.Type, humanize.Bytes(uint64(it.Size)), humanize.Time(it.Date))
		}
		return tw.Flush()
	})
}

func runGalleryRm(cmd *cobra.Command, args []string) error {
	return withGallery(func(ctx context.Context, store *gallery.Store) error {
		for _, arg := range args {
			id, err := gallery.ParseID(arg)
			if err != nil {
				return err
			}
			if err := store.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", id)
		}
		return nil
	})
}
