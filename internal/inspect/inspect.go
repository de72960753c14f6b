// Package inspect decodes batches of node URIs into a report.
package inspect

import (
	"context"
	"sort"
	"time"

	"github.com/Resinat/nodeuri/internal/geoip"
	"github.com/Resinat/nodeuri/internal/label"
	"github.com/Resinat/nodeuri/internal/netutil"
	"github.com/Resinat/nodeuri/internal/node"
	"github.com/Resinat/nodeuri/pkg/nodeuri"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when Options.Concurrency is not positive.
const DefaultConcurrency = 8

// Options configures a Run.
type Options struct {
	// Decoder defaults to a nodeuri.Decoder logging to Logger.
	Decoder     *nodeuri.Decoder
	Concurrency int

	// Dedupe drops later entries whose (scheme, host, port) was already seen.
	Dedupe bool
	// DisplayPrefix labels every name; the URI itself is left untouched.
	DisplayPrefix string
	// GeoIP is optional; nil disables country annotation.
	GeoIP *geoip.Service

	Logger logrus.FieldLogger
}

// Entry is the decoded form of one input URI.
type Entry struct {
	Index    int    `json:"index" yaml:"index"`
	URI      string `json:"uri" yaml:"uri"`
	Scheme   string `json:"scheme" yaml:"scheme"`
	Name     string `json:"name" yaml:"name"`
	Label    string `json:"label" yaml:"label"`
	Host     string `json:"host" yaml:"host"`
	Port     string `json:"port" yaml:"port"`
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Country  string `json:"country,omitempty" yaml:"country,omitempty"`
	Hash     string `json:"hash,omitempty" yaml:"hash,omitempty"`

	hash node.Hash
}

// Decoded reports whether an address was recovered.
func (e Entry) Decoded() bool {
	return e.Host != "" || e.Port != ""
}

// ProviderCount is the number of entries served from one registrable domain.
type ProviderCount struct {
	Domain string `json:"domain" yaml:"domain"`
	Count  int    `json:"count" yaml:"count"`
}

// Report is the result of a Run. Entries keep input order.
type Report struct {
	ID          string          `json:"id" yaml:"id"`
	CreatedAt   time.Time       `json:"created_at" yaml:"created_at"`
	Total       int             `json:"total" yaml:"total"`
	Undecodable int             `json:"undecodable" yaml:"undecodable"`
	Duplicates  int             `json:"duplicates" yaml:"duplicates"`
	Providers   []ProviderCount `json:"providers" yaml:"providers"`
	Entries     []Entry         `json:"entries" yaml:"entries"`
}

// Run decodes uris with a bounded worker pool. Undecodable URIs are kept in
// the report with empty fields; only context cancellation fails a Run.
func Run(ctx context.Context, uris []string, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	dec := opts.Decoder
	if dec == nil {
		dec = nodeuri.NewDecoder(nodeuri.WithLogger(log))
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	entries := make([]Entry, len(uris))
	// firstSeen maps an endpoint to the lowest input index that produced it.
	firstSeen := xsync.NewMap[node.Hash, int]()
	providers := xsync.NewMap[string, int]()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, uri := range uris {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e := decodeEntry(dec, i, uri, opts)
			entries[i] = e
			if !e.Decoded() {
				return nil
			}
			if e.Provider != "" {
				incrementProvider(providers, e.Provider, 1)
			}
			firstSeen.Compute(e.hash, func(idx int, loaded bool) (int, xsync.ComputeOp) {
				if loaded && idx < i {
					return idx, xsync.CancelOp
				}
				return i, xsync.UpdateOp
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("[inspect] run aborted")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Total:     len(uris),
		Entries:   make([]Entry, 0, len(entries)),
	}
	for _, e := range entries {
		if !e.Decoded() {
			report.Undecodable++
			report.Entries = append(report.Entries, e)
			continue
		}
		if first, ok := firstSeen.Load(e.hash); ok && first != e.Index {
			report.Duplicates++
			if opts.Dedupe {
				if e.Provider != "" {
					incrementProvider(providers, e.Provider, -1)
				}
				continue
			}
		}
		report.Entries = append(report.Entries, e)
	}
	report.Providers = sortedProviders(providers)

	log.WithFields(logrus.Fields{
		"run_id":      report.ID,
		"total":       report.Total,
		"undecodable": report.Undecodable,
		"duplicates":  report.Duplicates,
	}).Info("[inspect] run finished")
	return report, nil
}

func decodeEntry(dec *nodeuri.Decoder, i int, uri string, opts Options) Entry {
	n := dec.Describe(uri)
	e := Entry{
		Index:  i,
		URI:    uri,
		Scheme: string(n.Scheme),
		Name:   n.Name,
		Label:  label.Prefixed(opts.DisplayPrefix, n.Name),
		Host:   n.Host,
		Port:   n.Port,
	}
	if n.HostPort.IsZero() {
		return e
	}
	e.hash = node.HashEndpoint(e.Scheme, e.Host, e.Port)
	e.Hash = e.hash.Hex()
	e.Provider = netutil.ProviderDomain(e.Host)
	e.Country = opts.GeoIP.Lookup(e.Host)
	return e
}

func incrementProvider(providers *xsync.Map[string, int], domain string, delta int) {
	providers.Compute(domain, func(count int, _ bool) (int, xsync.ComputeOp) {
		count += delta
		if count <= 0 {
			return 0, xsync.DeleteOp
		}
		return count, xsync.UpdateOp
	})
}

// sortedProviders orders by count descending, then domain.
func sortedProviders(providers *xsync.Map[string, int]) []ProviderCount {
	out := make([]ProviderCount, 0, providers.Size())
	providers.Range(func(domain string, count int) bool {
		out = append(out, ProviderCount{Domain: domain, Count: count})
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}
