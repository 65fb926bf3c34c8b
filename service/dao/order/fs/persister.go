package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/dao/order"
)

// DefaultFilename is the snapshot file name created under the base URL
const DefaultFilename = "orders.json"

// Persister stores active orders as a single JSON object keyed by order id.
// The snapshot is uploaded to a temporary object and moved into place.
type Persister struct {
	baseURL string
	fs      afs.Service
}

var _ order.Persister = (*Persister)(nil)

// Load reads the snapshot; a missing snapshot yields no orders.
func (p *Persister) Load(ctx context.Context) ([]*model.Order, error) {
	location := p.snapshotURL()
	exists, err := p.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshot %s: %w", location, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := p.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", location, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	records := map[string]*model.Order{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", location, err)
	}
	ret := make([]*model.Order, 0, len(records))
	for id, o := range records {
		if o == nil {
			continue
		}
		if o.ID == "" {
			o.ID = id
		}
		if o.Status == "" {
			o.Status = model.StatusPending
		}
		ret = append(ret, o)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret, nil
}

// Save replaces the snapshot with orders.
func (p *Persister) Save(ctx context.Context, orders []*model.Order) error {
	records := make(map[string]*model.Order, len(orders))
	for _, o := range orders {
		records[o.ID] = o
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal orders: %w", err)
	}
	location := p.snapshotURL()
	temp := location + ".tmp"
	if err = p.fs.Upload(ctx, temp, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", temp, err)
	}
	if err = p.fs.Move(ctx, temp, location); err != nil {
		return fmt.Errorf("failed to replace snapshot %s: %w", location, err)
	}
	return nil
}

func (p *Persister) snapshotURL() string {
	return url.Join(p.baseURL, DefaultFilename)
}

// New creates a filesystem persister rooted at baseURL (local path or afs URL).
func New(ctx context.Context, baseURL string) (*Persister, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	fs := afs.New()
	baseURL = url.Normalize(baseURL, file.Scheme)
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	return &Persister{baseURL: baseURL, fs: fs}, nil
}
