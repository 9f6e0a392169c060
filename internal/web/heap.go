package web

import (
	"context"

	"github.com/swaggest/usecase"

	"binheap/internal/session"
	"binheap/internal/web/jsonrpc"
)

type HeapReq struct {
	ID string `json:"id" required:"true" validate:"required" description:"heap id"`
}

type LabelReq struct {
	ID    string `json:"id" required:"true" validate:"required" description:"heap id"`
	Label string `json:"label" required:"true" validate:"required"`
}

type CreateReq struct {
	ID string `json:"id" description:"heap id, generated when empty"`
}

type CreateRes struct {
	ID string `json:"id"`
}

type Empty struct{}

type ListRes struct {
	Heaps []session.Stat `json:"heaps"`
	Ops   uint64         `json:"ops" description:"operations served by all heaps"`
}

type InsertReq struct {
	Key   any    `json:"key" required:"true" description:"numeric key"`
	ID    string `json:"id" required:"true" validate:"required" description:"heap id"`
	Label string `json:"label" description:"element label, generated when empty"`
}

type InsertRes struct {
	Label string `json:"label"`
}

type Element struct {
	Label string  `json:"label"`
	Key   float64 `json:"key"`
}

type MinRes struct {
	Element
	Empty bool `json:"empty"`
}

type DecreaseKeyReq struct {
	Key   any    `json:"key" required:"true" description:"new key, must not be greater than current key"`
	ID    string `json:"id" required:"true" validate:"required" description:"heap id"`
	Label string `json:"label" required:"true" validate:"required"`
}

type UnionReq struct {
	ID  string `json:"id" required:"true" validate:"required" description:"destination heap"`
	Src string `json:"src" required:"true" validate:"required" description:"source heap, removed after union"`
}

type UnionRes struct {
	Len int `json:"len"`
}

type RenderRes struct {
	Heap string `json:"heap" description:"canonical form, every tree in root order as (k=key, p=parent, d=degree)"`
	Len  int    `json:"len"`
}

type CheckRes struct {
	OK bool `json:"ok"`
}

// AddHeap registers every heap.* method on h.
func AddHeap(h *jsonrpc.Handler, s *session.Store) {
	add(h, "heap.create", "Create an empty heap",
		usecase.NewInteractor[*CreateReq, CreateRes](
			func(ctx context.Context, req *CreateReq, res *CreateRes) error {
				id, err := s.Create(req.ID)
				if err != nil {
					return appError(err)
				}

				*res = CreateRes{ID: id}
				return nil
			},
		))

	add(h, "heap.drop", "Remove a heap and all its elements",
		usecase.NewInteractor[*HeapReq, Empty](
			func(ctx context.Context, req *HeapReq, _ *Empty) error {
				return appError(s.Drop(req.ID))
			},
		))

	add(h, "heap.list", "List heaps",
		usecase.NewInteractor[*Empty, ListRes](
			func(ctx context.Context, _ *Empty, res *ListRes) error {
				*res = ListRes{Heaps: s.List(), Ops: s.Ops()}
				return nil
			},
		))

	add(h, "heap.insert", "Insert a key",
		usecase.NewInteractor[*InsertReq, InsertRes](
			func(ctx context.Context, req *InsertReq, res *InsertRes) error {
				label, err := s.Insert(req.ID, req.Key, req.Label)
				if err != nil {
					return appError(err)
				}

				*res = InsertRes{Label: label}
				return nil
			},
		))

	add(h, "heap.min", "Peek the minimum element",
		usecase.NewInteractor[*HeapReq, MinRes](
			func(ctx context.Context, req *HeapReq, res *MinRes) error {
				el, ok, err := s.Min(req.ID)
				if err != nil {
					return appError(err)
				}

				*res = MinRes{Element: Element(el), Empty: !ok}
				return nil
			},
		))

	add(h, "heap.extract_min", "Remove and return the minimum element",
		usecase.NewInteractor[*HeapReq, Element](
			func(ctx context.Context, req *HeapReq, res *Element) error {
				el, err := s.ExtractMin(req.ID)
				if err != nil {
					return appError(err)
				}

				*res = Element(el)
				return nil
			},
		))

	add(h, "heap.decrease_key", "Lower the key of a labeled element",
		usecase.NewInteractor[*DecreaseKeyReq, Empty](
			func(ctx context.Context, req *DecreaseKeyReq, _ *Empty) error {
				return appError(s.DecreaseKey(req.ID, req.Label, req.Key))
			},
		))

	add(h, "heap.delete", "Remove a labeled element",
		usecase.NewInteractor[*LabelReq, Empty](
			func(ctx context.Context, req *LabelReq, _ *Empty) error {
				return appError(s.Delete(req.ID, req.Label))
			},
		))

	add(h, "heap.union", "Move every element of src into id",
		usecase.NewInteractor[*UnionReq, UnionRes](
			func(ctx context.Context, req *UnionReq, res *UnionRes) error {
				n, err := s.Union(req.ID, req.Src)
				if err != nil {
					return appError(err)
				}

				*res = UnionRes{Len: n}
				return nil
			},
		))

	add(h, "heap.render", "Render the canonical form of a heap",
		usecase.NewInteractor[*HeapReq, RenderRes](
			func(ctx context.Context, req *HeapReq, res *RenderRes) error {
				text, err := s.Render(req.ID)
				if err != nil {
					return appError(err)
				}

				n, err := s.Len(req.ID)
				if err != nil {
					return appError(err)
				}

				*res = RenderRes{Heap: text, Len: n}
				return nil
			},
		))

	add(h, "heap.check", "Validate heap structure and labels",
		usecase.NewInteractor[*HeapReq, CheckRes](
			func(ctx context.Context, req *HeapReq, res *CheckRes) error {
				if err := s.Check(req.ID); err != nil {
					return appError(err)
				}

				*res = CheckRes{OK: true}
				return nil
			},
		))
}

func add[i, o any](h *jsonrpc.Handler, name, title string, u usecase.IOInteractorOf[i, o]) {
	u.SetName(name)
	u.SetTitle(title)
	u.SetTags("heap")
	h.Add(u)
}
