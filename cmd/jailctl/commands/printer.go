package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	gojail "github.com/criyle/go-jail"
	"github.com/criyle/go-jail/pkg/jailparam"
)

// listParams are the parameters the list and get commands read per jail.
var listParams = []string{
	gojail.ParamName,
	"path",
	"host.hostname",
	"ip4.addr",
}

// JailInfo is one row of jail output.
type JailInfo struct {
	JID      int32  `json:"jid"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Hostname string `json:"hostname"`
	IP4      string `json:"ip4,omitempty"`
}

// jailInfo flattens a parameter table into a printable row. Parameters the
// kernel did not answer stay zero.
func jailInfo(t *jailparam.Table) JailInfo {
	var info JailInfo
	if v, ok := t.Get(gojail.ParamJID); ok {
		info.JID, _ = v.Int32()
	}
	if v, ok := t.Get(gojail.ParamName); ok {
		info.Name, _ = v.Text()
	}
	if v, ok := t.Get("path"); ok {
		info.Path, _ = v.Text()
	}
	if v, ok := t.Get("host.hostname"); ok {
		info.Hostname, _ = v.Text()
	}
	if v, ok := t.Get("ip4.addr"); ok {
		if a, ok := v.Addr(); ok {
			info.IP4 = a.String()
		}
	}
	return info
}

// paramItem is one parameter in JSON output, value rendered as text.
type paramItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Printer knows how to print jail information in different formats.
type Printer interface {
	PrintJails(jails []JailInfo) error
	PrintParams(t *jailparam.Table) error
}

// TablePrinter prints jail information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintJails prints jails in a table format.
func (t *TablePrinter) PrintJails(jails []JailInfo) error {
	if len(jails) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "JID\tNAME\tPATH\tHOSTNAME\tIP4")
	for _, j := range jails {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", j.JID, j.Name, j.Path, j.Hostname, j.IP4)
	}

	return nil
}

// PrintParams prints a parameter table, one parameter per row in table
// order.
func (t *TablePrinter) PrintParams(tbl *jailparam.Table) error {
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "NAME\tVALUE")
	for _, e := range tbl.Entries() {
		fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.Value.String())
	}

	return nil
}

// JSONPrinter prints jail information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// PrintJails prints jails in JSON format.
func (j *JSONPrinter) PrintJails(jails []JailInfo) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(jails)
}

// PrintParams prints a parameter table as a JSON array in table order.
func (j *JSONPrinter) PrintParams(tbl *jailparam.Table) error {
	items := make([]paramItem, 0, tbl.Len())
	for _, e := range tbl.Entries() {
		items = append(items, paramItem{Name: e.Name, Value: e.Value.String()})
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// newPrinter picks the printer for a --format flag value.
func newPrinter(format string, w io.Writer) Printer {
	switch format {
	case "json":
		return NewJSONPrinter(w)
	default:
		return NewTablePrinter(w)
	}
}
