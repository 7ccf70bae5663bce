package qwant

import (
	"encoding/json"
	"errors"
	"slices"
)

// Envelope is the top-level object returned by the search endpoint.
// Data is nil when the API could not serve the request at all.
type Envelope struct {
	Status string `json:"status"`
	Data   *Data  `json:"data,omitempty"`
}

// UnmarshalJSON rejects payloads without a status key. An empty status
// string is accepted as sent.
func (e *Envelope) UnmarshalJSON(b []byte) error {
	type plain Envelope
	var aux struct {
		plain
		Status *string `json:"status"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Status == nil {
		return errors.New("qwant: status is missing")
	}
	*e = Envelope(aux.plain)
	e.Status = *aux.Status
	return nil
}

// Data holds the query echo, cache metadata and results. When the API reports
// a query-level failure, ErrorCode is set, Items is empty and Query/Cache are nil.
type Data struct {
	Query     *Query           `json:"query,omitempty"`
	Cache     *Cache           `json:"cache,omitempty"`
	Result    Result           `json:"result"`
	ErrorCode Optional[uint32] `json:"error_code,omitzero"`
}

// UnmarshalJSON rejects payloads without a result object.
func (d *Data) UnmarshalJSON(b []byte) error {
	type plain Data
	var aux struct {
		plain
		Result *Result `json:"result"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Result == nil {
		return errors.New("qwant: data.result is missing")
	}
	*d = Data(aux.plain)
	d.Result = *aux.Result
	return nil
}

// Query echoes the parameters the server actually used.
type Query struct {
	Locale string `json:"locale"`
	Query  string `json:"query"`
	Offset int    `json:"offset"`
}

type Cache struct {
	Key        string `json:"key"`
	Created    int64  `json:"created"`
	Expiration int64  `json:"expiration"`
	Status     string `json:"status"`
	Age        int64  `json:"age"`
}

type Result struct {
	Items   []Item           `json:"items"`
	Filters Filters          `json:"filters"`
	Version string           `json:"version"`
	Domain  Optional[string] `json:"domain,omitzero"`
	// Last is true on the final page.
	Last Optional[bool] `json:"last,omitzero"`
}

// Item is one search hit. Which optional fields are filled depends on the
// search kind: images carry dimensions and thumbnails, videos a duration,
// news a date, and so on.
type Item struct {
	Title         string            `json:"title"`
	ID            string            `json:"_id"`
	Type          Optional[string]  `json:"type,omitzero"`
	Favicon       Optional[string]  `json:"favicon,omitzero"`
	URL           string            `json:"url"`
	Source        Optional[string]  `json:"source,omitzero"`
	Desc          string            `json:"desc"`
	DescShort     Optional[string]  `json:"desc_short,omitzero"`
	Position      Optional[uint64]  `json:"position,omitzero"`
	Duration      Optional[uint64]  `json:"duration,omitzero"`
	Thumbnail     Optional[string]  `json:"thumbnail,omitzero"`
	ThumbHeight   Optional[uint64]  `json:"thumb_height,omitzero"`
	ThumbWidth    Optional[uint64]  `json:"thumb_width,omitzero"`
	ThumbType     Optional[string]  `json:"thumb_type,omitzero"`
	Width         Optional[string]  `json:"width,omitzero"`
	Height        Optional[string]  `json:"height,omitzero"`
	Size          Optional[string]  `json:"size,omitzero"`
	BID           Optional[string]  `json:"b_id,omitzero"`
	MediaFullsize Optional[string]  `json:"media_fullsize,omitzero"`
	Count         Optional[uint64]  `json:"count,omitzero"`
	Domain        Optional[string]  `json:"domain,omitzero"`
	Date          Optional[uint64]  `json:"date,omitzero"`
	Media         Optional[string]  `json:"media,omitzero"`
	MediaList     Optional[[]Media] `json:"media_,omitzero"`
}

// Media describes one embedded asset attached to an Item.
type Media struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
}

type Filters struct {
	Freshness Facet  `json:"freshness"`
	Size      *Facet `json:"size,omitempty"`
	License   *Facet `json:"license,omitempty"`
}

// Facet is one refinement dimension offered alongside results.
type Facet struct {
	Label    string       `json:"label"`
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Selected string       `json:"selected"`
	Values   []FacetValue `json:"values"`
}

type FacetValue struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	Translate bool   `json:"translate"`
}

// Items returns the result items, or nil when there is no data.
func (e Envelope) Items() []Item {
	if e.Data == nil {
		return nil
	}
	return e.Data.Result.Items
}

// Err reports ErrNotServed when data is absent and an *APIError when the
// API flagged the query with an error code.
func (e Envelope) Err() error {
	if e.Data == nil {
		return ErrNotServed
	}
	if code, ok := e.Data.ErrorCode.Get(); ok {
		return &APIError{Status: e.Status, Code: code}
	}
	return nil
}

// EchoedOffset returns the offset echoed by the server, if any.
func (e Envelope) EchoedOffset() (int, bool) {
	if e.Data == nil || e.Data.Query == nil {
		return 0, false
	}
	return e.Data.Query.Offset, true
}

// IsLast reports whether the server marked this page as the final one.
func (e Envelope) IsLast() bool {
	if e.Data == nil {
		return false
	}
	return e.Data.Result.Last.OrElse(false)
}

// clone returns a copy that shares no slices or pointers with e.
func (e Envelope) clone() Envelope {
	if e.Data == nil {
		return e
	}
	d := *e.Data
	if d.Query != nil {
		q := *d.Query
		d.Query = &q
	}
	if d.Cache != nil {
		c := *d.Cache
		d.Cache = &c
	}
	if d.Result.Items != nil {
		items := make([]Item, len(d.Result.Items))
		for i, it := range d.Result.Items {
			items[i] = it.clone()
		}
		d.Result.Items = items
	}
	d.Result.Filters = d.Result.Filters.clone()
	e.Data = &d
	return e
}

func (it Item) clone() Item {
	if media, ok := it.MediaList.Get(); ok {
		it.MediaList = Some(slices.Clone(media))
	}
	return it
}

func (f Filters) clone() Filters {
	f.Freshness = f.Freshness.clone()
	if f.Size != nil {
		s := f.Size.clone()
		f.Size = &s
	}
	if f.License != nil {
		l := f.License.clone()
		f.License = &l
	}
	return f
}

func (f Facet) clone() Facet {
	f.Values = slices.Clone(f.Values)
	return f
}
