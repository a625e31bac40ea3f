package cmd

import (
	"fmt"

	"github.com/Manu343726/armldr/internal/armelf"
	"github.com/Manu343726/armldr/internal/armrel"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <object.o>",
	Short: "Browse an object's sections, symbols, and relocations",
	Long: `inspect parses a relocatable object's section directory, symbol table, and
relocation entries and renders them in a read-only terminal browser. It
never allocates executable memory or dispatches to the entry point --
it is a pure viewer over the same parsing components exec uses.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(_ *cobra.Command, args []string) error {
	path := args[0]

	img, err := armelf.OpenFile(path, nil, nil)
	if err != nil {
		return err
	}
	defer img.Close()

	if err := armelf.LoadSections(img); err != nil {
		return err
	}

	symbols, err := armelf.ListSymbols(img)
	if err != nil {
		return err
	}
	relocations, err := armelf.ListRelocations(img)
	if err != nil {
		return err
	}

	app := tview.NewApplication()
	pages := tview.NewPages()

	pages.AddPage("sections", sectionsTable(img), true, true)
	pages.AddPage("symbols", symbolsTable(symbols), true, false)
	pages.AddPage("relocations", relocationsTable(relocations), true, false)

	tabs := []string{"sections", "symbols", "relocations"}
	tabIndex := 0

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewTextView().
			SetText(fmt.Sprintf(" %s  —  Tab to switch view, q to quit", path)).
			SetTextColor(tcell.ColorYellow), 1, 0, false).
		AddItem(pages, 0, 1, true)

	root.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyTab:
			tabIndex = (tabIndex + 1) % len(tabs)
			pages.SwitchToPage(tabs[tabIndex])
			return nil
		case event.Rune() == 'q':
			app.Stop()
			return nil
		}
		return event
	})

	return app.SetRoot(root, true).Run()
}

func sectionsTable(img *armelf.Image) *tview.Table {
	t := tview.NewTable().SetBorders(true)
	headers := []string{"ROLE", "PRESENT", "SIZE", "ALIGN"}
	for col, h := range headers {
		t.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(tcell.ColorYellow))
	}
	row := 1
	for _, role := range armelf.Roles() {
		sec := img.Section(role)
		t.SetCell(row, 0, tview.NewTableCell(role.String()))
		t.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf("%v", sec.Present())))
		t.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", sec.Size())))
		t.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%d", sec.Align)))
		row++
	}
	return t
}

func symbolsTable(symbols []armelf.Symbol) *tview.Table {
	t := tview.NewTable().SetBorders(true)
	headers := []string{"NAME", "SHNDX", "VALUE"}
	for col, h := range headers {
		t.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(tcell.ColorYellow))
	}
	for row, sym := range symbols {
		t.SetCell(row+1, 0, tview.NewTableCell(sym.Name))
		t.SetCell(row+1, 1, tview.NewTableCell(fmt.Sprintf("%d", sym.Shndx)))
		t.SetCell(row+1, 2, tview.NewTableCell(fmt.Sprintf("%#x", sym.Value)))
	}
	return t
}

func relocationsTable(relocations []armelf.RelocationInfo) *tview.Table {
	t := tview.NewTable().SetBorders(true)
	headers := []string{"SECTION", "OFFSET", "TYPE", "SYMBOL", "ADDRESS"}
	for col, h := range headers {
		t.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(tcell.ColorYellow))
	}
	for row, rel := range relocations {
		addrCell := fmt.Sprintf("%#x", rel.Address)
		if rel.ResolveErr != nil {
			addrCell = "unresolved"
		}
		t.SetCell(row+1, 0, tview.NewTableCell(rel.Section.String()))
		t.SetCell(row+1, 1, tview.NewTableCell(fmt.Sprintf("%#x", rel.Offset)))
		t.SetCell(row+1, 2, tview.NewTableCell(armrel.TypeName(rel.Type)))
		t.SetCell(row+1, 3, tview.NewTableCell(rel.Symbol))
		t.SetCell(row+1, 4, tview.NewTableCell(addrCell))
	}
	return t
}
