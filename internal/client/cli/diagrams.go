package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/umlgen/internal/client/models"
	"github.com/dmitrijs2005/umlgen/internal/client/views"
	"github.com/dmitrijs2005/umlgen/internal/filex"
)

const (
	msgLoadDiagramsFailed  = "Failed to load diagrams. Please try again."
	msgGenerateFailed      = "Failed to generate diagram"
	msgSaveFailed          = "Failed to save diagram"
	msgDeleteDiagramFailed = "Failed to delete diagram"

	dashboardPageSize = 20
	diagramsPageSize  = 100

	mermaidExt = ".mmd"
)

var errUsage = errors.New("usage")

// Dashboard prints the counters and the most recent diagrams.
func (a *App) Dashboard(ctx context.Context) error {
	return a.protect(func() error {
		list, err := a.diagrams.List(ctx, 1, dashboardPageSize)
		if err != nil {
			a.reportError(ctx, msgLoadDiagramsFailed, err)
			return err
		}

		sum := views.DashboardSummary(list.Diagrams, list.Total, a.now())
		a.printf("Total Diagrams: %d   This Month: %d   Most Used: %s\n", sum.Total, sum.ThisMonth, sum.MostUsed)
		if len(sum.Recent) == 0 {
			a.println("No diagrams yet. Type 'generate' to create one.")
			return nil
		}
		a.println("Recent diagrams:")
		a.printDiagrams(sum.Recent)
		return nil
	})
}

// Diagrams lists saved diagrams, optionally filtered:
//
//	diagrams [search words] [-t class|sequence|usecase|activity|all]
func (a *App) Diagrams(ctx context.Context, args []string) error {
	search, typ, err := parseDiagramArgs(args)
	if err != nil {
		a.println("Usage: diagrams [search] [-t class|sequence|usecase|activity|all]")
		return err
	}

	return a.protect(func() error {
		list, err := a.diagrams.List(ctx, 1, diagramsPageSize)
		if err != nil {
			a.reportError(ctx, msgLoadDiagramsFailed, err)
			return err
		}

		a.mu.Lock()
		a.listed = list.Diagrams
		a.listQ = listQuery{search: search, typ: typ}
		a.mu.Unlock()

		filtered := views.FilterDiagrams(list.Diagrams, search, typ)
		if len(filtered) == 0 {
			a.println("No diagrams found.")
			return nil
		}
		a.printDiagrams(filtered)
		a.printf("%d of %d diagrams\n", len(filtered), list.Total)
		return nil
	})
}

// listQuery is the filter of the last 'diagrams' listing.
type listQuery struct {
	search string
	typ    string
}

// printListed reprints the cached listing with its original filter.
func (a *App) printListed() {
	a.mu.Lock()
	if a.listed == nil {
		a.mu.Unlock()
		return
	}
	filtered := views.FilterDiagrams(a.listed, a.listQ.search, a.listQ.typ)
	total := len(a.listed)
	a.mu.Unlock()

	if len(filtered) == 0 {
		a.println("No diagrams found.")
		return
	}
	a.printDiagrams(filtered)
	a.printf("%d of %d diagrams\n", len(filtered), total)
}

func parseDiagramArgs(args []string) (search, typ string, err error) {
	var words []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-t" || args[i] == "--type":
			if i+1 >= len(args) {
				return "", "", errUsage
			}
			typ = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-t="), strings.HasPrefix(args[i], "--type="):
			typ = args[i][strings.Index(args[i], "=")+1:]
		default:
			words = append(words, args[i])
		}
	}
	if typ != "" && !strings.EqualFold(typ, views.TypeAll) && !models.DiagramType(strings.ToLower(typ)).Valid() {
		return "", "", errUsage
	}
	return strings.Join(words, " "), strings.ToLower(typ), nil
}

func (a *App) printDiagrams(list []models.Diagram) {
	for _, d := range list {
		a.printf("  #%-5d [%s] %-40s %-8s %s\n",
			d.ID, views.TypeBadge(d.DiagramType), d.Title, views.TypeColor(d.DiagramType), d.CreatedAt.Local().Format("2006-01-02"))
	}
}

// Generate asks for a description and a diagram type, then prints the
// Mermaid markup. The result stays in the draft for 'save' and 'export'.
func (a *App) Generate(ctx context.Context) error {
	return a.protect(func() error {
		prompt, err := getMultiline(a.reader, "Describe your diagram", a.out)
		if err != nil {
			return err
		}
		if strings.TrimSpace(prompt) == "" {
			a.println("Please enter a description")
			return errRejected
		}

		raw, err := getSimpleText(a.reader, "Diagram type (class, sequence, usecase, activity; empty for auto)", a.out)
		if err != nil {
			return err
		}
		var typ *models.DiagramType
		if raw != "" {
			t := models.DiagramType(strings.ToLower(raw))
			if !t.Valid() {
				a.printf("Unknown diagram type %q\n", raw)
				return errRejected
			}
			typ = &t
		}

		a.println("Generating...")
		res, err := a.diagrams.Generate(ctx, prompt, typ)
		if err != nil {
			a.reportError(ctx, detailOr(err, msgGenerateFailed), err)
			return err
		}
		if !res.Success {
			msg := res.Error
			if msg == "" {
				msg = msgGenerateFailed
			}
			a.println(msg)
			return errRejected
		}

		dt := res.DiagramType
		if dt == "" && typ != nil {
			dt = *typ
		}
		a.mu.Lock()
		a.draft = draft{Prompt: prompt, MermaidCode: res.MermaidCode, DiagramType: dt}
		a.mu.Unlock()

		a.println("Diagram generated successfully!")
		a.println(res.MermaidCode)
		return nil
	})
}

// Save stores the current draft. The title defaults to one derived from the
// prompt and the type to class.
func (a *App) Save(ctx context.Context) error {
	return a.protect(func() error {
		a.mu.Lock()
		d := a.draft
		a.mu.Unlock()

		if d.MermaidCode == "" {
			a.println("No diagram to save")
			return errRejected
		}

		title, err := getSimpleText(a.reader, fmt.Sprintf("Title (empty for %q)", defaultTitle(d)), a.out)
		if err != nil {
			return err
		}
		if title == "" {
			title = defaultTitle(d)
		}
		dt := d.DiagramType
		if dt == "" {
			dt = models.DiagramClass
		}

		saved, err := a.diagrams.Save(ctx, models.SaveRequest{Prompt: d.Prompt, Title: title, MermaidCode: d.MermaidCode, DiagramType: dt})
		if err != nil {
			a.reportError(ctx, detailOr(err, msgSaveFailed), err)
			return err
		}

		a.mu.Lock()
		a.draft.Title = saved.Title
		a.mu.Unlock()
		a.printf("Diagram saved successfully! (#%d)\n", saved.ID)
		return nil
	})
}

func defaultTitle(d draft) string {
	if d.Title != "" {
		return d.Title
	}
	p := strings.Join(strings.Fields(d.Prompt), " ")
	if r := []rune(p); len(r) > 50 {
		p = string(r[:50])
	}
	return "Diagram - " + p
}

// Show prints a saved diagram and loads it into the draft.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, 1)
	if err != nil {
		a.println("Usage: show <id>")
		return err
	}

	return a.protect(func() error {
		d, err := a.diagrams.Get(ctx, id)
		if err != nil {
			a.reportError(ctx, "Failed to load diagram: "+detailOr(err, err.Error()), err)
			return err
		}

		a.mu.Lock()
		a.draft = draft{Prompt: d.Prompt, Title: d.Title, MermaidCode: d.MermaidCode, DiagramType: d.DiagramType}
		a.mu.Unlock()

		a.printf("#%d %s [%s]\n", d.ID, d.Title, d.DiagramType)
		a.printf("Created: %s\n", d.CreatedAt.Local().Format("2006-01-02 15:04"))
		a.printf("Prompt: %s\n\n", d.Prompt)
		a.println(d.MermaidCode)
		return nil
	})
}

// Export writes a saved diagram's Mermaid source to a file; ".mmd" is
// appended when the name has no extension.
func (a *App) Export(ctx context.Context, args []string) error {
	id, err := parseID(args, 2)
	if err != nil {
		a.println("Usage: export <id> <file>")
		return err
	}
	path := args[1]
	if filepath.Ext(path) == "" {
		path += mermaidExt
	}

	return a.protect(func() error {
		d, err := a.diagrams.Get(ctx, id)
		if err != nil {
			a.reportError(ctx, "Failed to load diagram: "+detailOr(err, err.Error()), err)
			return err
		}
		if err := writeMermaid(path, d.MermaidCode); err != nil {
			a.log.Error(ctx, "export", "path", path, "error", err)
			a.printf("Could not write %s: %v\n", path, err)
			return err
		}
		a.printf("Exported #%d to %s\n", d.ID, path)
		return nil
	})
}

func writeMermaid(path, code string) error {
	if err := filex.EnsureParentDir(path); err != nil {
		return err
	}
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	return os.WriteFile(path, []byte(code), 0o644)
}

// Delete removes a saved diagram after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, 1)
	if err != nil {
		a.println("Usage: delete <id>")
		return err
	}

	return a.protect(func() error {
		if !confirm(a.reader, "Are you sure you want to delete this diagram?", a.out) {
			return nil
		}
		if _, err := a.diagrams.Delete(ctx, id); err != nil {
			a.reportError(ctx, msgDeleteDiagramFailed, err)
			return err
		}
		a.mu.Lock()
		if a.listed != nil {
			a.listed = views.RemoveDiagram(a.listed, id)
		}
		a.mu.Unlock()
		a.printf("Diagram #%d deleted.\n", id)
		a.printListed()
		return nil
	})
}

// parseID reads args[0] as a positive id and requires at least n args.
func parseID(args []string, n int) (int64, error) {
	if len(args) < n {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, errUsage
	}
	return id, nil
}
