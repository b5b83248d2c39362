package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"devflow/internal/models"
)

// crud implements load/create/update/delete for one backend resource.
// T is the loaded entity, C the create body and U the update body.
type crud[T, C, U any] struct {
	c    *Client
	name string
}

func (r crud[T, C, U]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := r.c.do(ctx, call{
		resource: r.name, operation: "get",
		method: http.MethodGet, path: idPath(r.name, "load", id),
	}, &out)
	return out, err
}

func (r crud[T, C, U]) Create(ctx context.Context, in C) (T, error) {
	var out T
	err := r.c.do(ctx, call{
		resource: r.name, operation: "create",
		method: http.MethodPost, path: "/" + r.name + "/create", body: in,
	}, &out)
	return out, err
}

func (r crud[T, C, U]) Update(ctx context.Context, id int64, in U) (T, error) {
	var out T
	err := r.c.do(ctx, call{
		resource: r.name, operation: "update",
		method: http.MethodPut, path: idPath(r.name, "update", id), body: in,
	}, &out)
	return out, err
}

func (r crud[T, C, U]) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, call{
		resource: r.name, operation: "delete",
		method: http.MethodDelete, path: idPath(r.name, "delete", id),
	}, nil)
}

// list fetches a paginated listing and decodes it with decodePage.
func list[T any](ctx context.Context, c *Client, req call) (models.Page[T], error) {
	raw, err := c.send(ctx, req)
	if err != nil {
		return models.Page[T]{}, err
	}
	page, err := decodePage[T](raw)
	if err != nil {
		return page, fmt.Errorf("decode %s %s: %w", req.resource, req.operation, err)
	}
	return page, nil
}

// decodePage accepts a bare array, {"items": [...], "total": n}, or any object with a
// single array field plus an optional total, e.g. {"answers": [...], "total": n}.
func decodePage[T any](raw json.RawMessage) (models.Page[T], error) {
	var page models.Page[T]
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		page.Items = []T{}
		return page, nil
	}
	if trimmed[0] == '[' {
		err := json.Unmarshal(trimmed, &page.Items)
		return page, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return page, err
	}
	if t, ok := fields["total"]; ok {
		var total int64
		if err := json.Unmarshal(t, &total); err == nil {
			page.Total = &total
		}
	}

	items, ok := fields["items"]
	if !ok {
		for key, v := range fields {
			if key != "total" && bytes.HasPrefix(bytes.TrimSpace(v), []byte("[")) {
				items = v
				break
			}
		}
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &page.Items); err != nil {
			return page, err
		}
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}
