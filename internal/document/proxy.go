package document

import (
	"fmt"

	"github.com/bifshteksex/crdt-engine/internal/change"
	"github.com/bifshteksex/crdt-engine/internal/crdt"
	"github.com/bifshteksex/crdt-engine/internal/operation"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// ObjectProxy is the mutable facade an Update callback receives over a
// CRDTObject. Every mutating method synthesizes an Operation, executes
// it immediately against the working root, and pushes it onto the
// enclosing ChangeContext (§4.I, §9).
type ObjectProxy struct {
	ctx    *change.Context
	root   *crdt.Root
	target *crdt.Object
}

func newObjectProxy(ctx *change.Context, root *crdt.Root, target *crdt.Object) *ObjectProxy {
	return &ObjectProxy{ctx: ctx, root: root, target: target}
}

// Set assigns a primitive value at key. value must be one of the Go
// types crdt.NewPrimitive accepts.
func (p *ObjectProxy) Set(key string, value any) error {
	at := p.ctx.IssueTimeTicket()
	prim, err := crdt.NewPrimitive(value, at)
	if err != nil {
		return err
	}
	op := operation.NewSet(p.target.CreatedAt(), key, prim, at)
	if err := op.Execute(p.root); err != nil {
		return err
	}
	p.ctx.Push(op)
	return nil
}

// SetNewObject creates an empty nested Object at key and returns a
// proxy over it for further mutation.
func (p *ObjectProxy) SetNewObject(key string) (*ObjectProxy, error) {
	at := p.ctx.IssueTimeTicket()
	obj := crdt.NewObject(at)
	op := operation.NewSet(p.target.CreatedAt(), key, obj, at)
	if err := op.Execute(p.root); err != nil {
		return nil, err
	}
	p.ctx.Push(op)
	return newObjectProxy(p.ctx, p.root, obj), nil
}

// SetNewArray creates an empty nested Array at key and returns a proxy
// over it for further mutation.
func (p *ObjectProxy) SetNewArray(key string) (*ArrayProxy, error) {
	at := p.ctx.IssueTimeTicket()
	arr := crdt.NewArray(at)
	op := operation.NewSet(p.target.CreatedAt(), key, arr, at)
	if err := op.Execute(p.root); err != nil {
		return nil, err
	}
	p.ctx.Push(op)
	return newArrayProxy(p.ctx, p.root, arr), nil
}

// Delete tombstones the child at key.
func (p *ObjectProxy) Delete(key string) error {
	child, err := p.target.Get(key)
	if err != nil {
		return err
	}
	at := p.ctx.IssueTimeTicket()
	op := operation.NewRemove(p.target.CreatedAt(), child.CreatedAt(), at)
	if err := op.Execute(p.root); err != nil {
		return err
	}
	p.ctx.Push(op)
	return nil
}

// Object returns a proxy over the existing nested Object at key, or
// ErrTypeMismatch if key holds a different variant.
func (p *ObjectProxy) Object(key string) (*ObjectProxy, error) {
	child, err := p.target.Get(key)
	if err != nil {
		return nil, err
	}
	obj, ok := child.(*crdt.Object)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an object", crdt.ErrTypeMismatch, key)
	}
	return newObjectProxy(p.ctx, p.root, obj), nil
}

// Array returns a proxy over the existing nested Array at key, or
// ErrTypeMismatch if key holds a different variant.
func (p *ObjectProxy) Array(key string) (*ArrayProxy, error) {
	child, err := p.target.Get(key)
	if err != nil {
		return nil, err
	}
	arr, ok := child.(*crdt.Array)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an array", crdt.ErrTypeMismatch, key)
	}
	return newArrayProxy(p.ctx, p.root, arr), nil
}

// ArrayProxy is the mutable facade an Update callback receives over a
// CRDTArray.
type ArrayProxy struct {
	ctx    *change.Context
	root   *crdt.Root
	target *crdt.Array
}

func newArrayProxy(ctx *change.Context, root *crdt.Root, target *crdt.Array) *ArrayProxy {
	return &ArrayProxy{ctx: ctx, root: root, target: target}
}

// Push appends a primitive value to the end of the array.
func (p *ArrayProxy) Push(value any) error {
	at := p.ctx.IssueTimeTicket()
	prim, err := crdt.NewPrimitive(value, at)
	if err != nil {
		return err
	}
	return p.insertAfter(p.target.TailCreatedAt(), prim, at)
}

// PushNewObject appends an empty nested Object and returns a proxy over
// it.
func (p *ArrayProxy) PushNewObject() (*ObjectProxy, error) {
	at := p.ctx.IssueTimeTicket()
	obj := crdt.NewObject(at)
	if err := p.insertAfter(p.target.TailCreatedAt(), obj, at); err != nil {
		return nil, err
	}
	return newObjectProxy(p.ctx, p.root, obj), nil
}

func (p *ArrayProxy) insertAfter(prevCreatedAt tick.Ticket, value crdt.Element, executedAt tick.Ticket) error {
	op := operation.NewAdd(p.target.CreatedAt(), prevCreatedAt, value, executedAt)
	if err := op.Execute(p.root); err != nil {
		return err
	}
	p.ctx.Push(op)
	return nil
}

// MoveAfter relinks the child at targetCreatedAt immediately after
// prevCreatedAt.
func (p *ArrayProxy) MoveAfter(prevCreatedAt, targetCreatedAt tick.Ticket) error {
	at := p.ctx.IssueTimeTicket()
	op := operation.NewMove(p.target.CreatedAt(), prevCreatedAt, targetCreatedAt, at)
	if err := op.Execute(p.root); err != nil {
		return err
	}
	p.ctx.Push(op)
	return nil
}

// RemoveAt tombstones the live element currently at index i.
func (p *ArrayProxy) RemoveAt(i int) error {
	elem, err := p.target.Get(i)
	if err != nil {
		return err
	}
	at := p.ctx.IssueTimeTicket()
	op := operation.NewRemove(p.target.CreatedAt(), elem.CreatedAt(), at)
	if err := op.Execute(p.root); err != nil {
		return err
	}
	p.ctx.Push(op)
	return nil
}

// Len returns the number of live elements.
func (p *ArrayProxy) Len() int {
	return p.target.Len()
}
