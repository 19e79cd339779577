// Package report renders the end-of-run summary and writes the scan document
// to the configured XML and JSON sinks.
package report

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sslscout/sslscout/internal/config"
	"github.com/sslscout/sslscout/internal/connectivity"
)

// Stdout is the sink value meaning "print to stdout instead of a file".
const Stdout = "-"

// Report is the scan document: which targets resolved, which did not, under
// which run.
type Report struct {
	XMLName  xml.Name `json:"-" xml:"sslscout"`
	RunID    string   `json:"runId" xml:"runId,attr"`
	Version  string   `json:"version" xml:"version,attr"`
	Resolved []Server `json:"resolvedTargets" xml:"resolvedTargets>server"`
	Failed   []Failed `json:"invalidTargets" xml:"invalidTargets>server"`
}

// Server is the serialized form of one resolved descriptor.
type Server struct {
	ServerString string `json:"serverString" xml:"serverString,attr"`
	Hostname     string `json:"hostname" xml:"hostname,attr"`
	IPAddress    string `json:"ipAddress,omitempty" xml:"ipAddress,attr,omitempty"`
	Port         int    `json:"port" xml:"port,attr"`
	Protocol     string `json:"protocol" xml:"protocol,attr"`
}

// Failed is the serialized form of one target that could not be resolved.
type Failed struct {
	ServerString string `json:"serverString" xml:"serverString,attr"`
	Error        string `json:"error" xml:"error,attr"`
}

// New assembles the report for one finished resolution run.
func New(runID uuid.UUID, version string, descriptors []*connectivity.Descriptor, failures []connectivity.FailedTarget) *Report {
	r := &Report{
		RunID:   runID.String(),
		Version: version,
	}
	for _, d := range descriptors {
		r.Resolved = append(r.Resolved, Server{
			ServerString: d.ServerString,
			Hostname:     d.Hostname,
			IPAddress:    d.IPAddress,
			Port:         d.Port,
			Protocol:     d.Protocol.String(),
		})
	}
	for _, f := range failures {
		r.Failed = append(r.Failed, Failed{
			ServerString: f.ServerString,
			Error:        f.Err.Error(),
		})
	}
	return r
}

// WriteText prints the human readable summary.
func (r *Report) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Resolved targets: %d\n", len(r.Resolved))
	for _, s := range r.Resolved {
		fmt.Fprintf(w, "  %s => %s:%d (%s)\n", s.ServerString, s.Hostname, s.Port, s.Protocol)
	}
	if len(r.Failed) > 0 {
		fmt.Fprintf(w, "Invalid targets: %d\n", len(r.Failed))
		for _, f := range r.Failed {
			fmt.Fprintf(w, "  %s: %s\n", f.ServerString, f.Error)
		}
	}
}

// WriteSinks writes the XML and JSON documents to their configured sinks,
// concurrently. A sink set to "-" goes to stdout; an empty sink is skipped.
func (r *Report) WriteSinks(ctx context.Context, cfg *config.ScanConfiguration) error {
	g, _ := errgroup.WithContext(ctx)

	if cfg.XMLSink != "" {
		g.Go(func() error {
			return r.writeSink(cfg.XMLSink, r.encodeXML)
		})
	}
	if cfg.JSONSink != "" {
		g.Go(func() error {
			return r.writeSink(cfg.JSONSink, r.encodeJSON)
		})
	}
	return g.Wait()
}

func (r *Report) writeSink(sink string, encode func(io.Writer) error) error {
	if sink == Stdout {
		return encode(os.Stdout)
	}
	f, err := os.Create(sink)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	if err := encode(f); err != nil {
		return fmt.Errorf("writing %s: %w", sink, err)
	}
	return nil
}

func (r *Report) encodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *Report) encodeXML(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
