package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yuanying/tread/internal/config"
	"github.com/yuanying/tread/internal/epub"
	"github.com/yuanying/tread/internal/layout"
	"github.com/yuanying/tread/internal/state"
	"github.com/yuanying/tread/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "tread <book.epub>",
	Short: "Read EPUB books in the terminal",
	Long: `tread renders EPUB ebooks as paginated plain text in the terminal,
remembering your reading position across sessions and terminal resizes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if width, _ := cmd.Flags().GetInt("width"); width > 0 {
			cfg.Style.Width = width
		}
		if fill, _ := cmd.Flags().GetBool("fill"); fill {
			cfg.FillToNextChapter = true
		}

		book, err := epub.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open %s: %w", args[0], err)
		}

		dir, err := state.DefaultDir()
		if err != nil {
			return err
		}
		store := state.NewStore(dir)
		st, err := store.Load(state.BookID(book.Path))
		if err != nil {
			// Persistence failures must not block reading.
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}

		nav := layout.NewNavigator(book, cfg.Style, layout.Viewport{Width: 80, Height: 24}, cfg.FillToNextChapter)
		if err := nav.JumpTo(clampPosition(st.Position, book)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: saved position unusable: %v\n", err)
		}

		app := ui.NewApp(book, nav, store, st, ui.NewKeyMap(cfg.Keybinds))
		_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
		return err
	},
}

var coverCmd = &cobra.Command{
	Use:   "cover <book.epub>",
	Short: "Export a book's cover image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := epub.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open %s: %w", args[0], err)
		}

		outPath, _ := cmd.Flags().GetString("output")
		if outPath == "" {
			outPath = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
		}
		maxSize, _ := cmd.Flags().GetInt("max-size")

		if err := book.ExportCover(outPath, maxSize, maxSize); err != nil {
			return err
		}
		fmt.Printf("cover written to %s\n", outPath)
		return nil
	},
}

func init() {
	rootCmd.Flags().IntP("width", "w", 0, "Wrap width in columns (default: terminal width)")
	rootCmd.Flags().Bool("fill", false, "Pad a chapter's final page with blank lines to full viewport height")

	coverCmd.Flags().StringP("output", "o", "", "Output image path (default: book path with image extension)")
	coverCmd.Flags().Int("max-size", 800, "Maximum cover width/height in pixels")
	rootCmd.AddCommand(coverCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// clampPosition keeps a restored position inside the book's current bounds;
// the book may have changed on disk since the state was saved.
func clampPosition(pos layout.Position, book *epub.Book) layout.Position {
	if pos.Chapter < 0 || pos.Chapter >= len(book.Chapters) {
		return layout.Position{}
	}
	return pos
}
