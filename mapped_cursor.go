// mapped_cursor.go - Lazy cursor adapter applying the read transform per element

package mongomap

import "context"

// mappedCursor wraps a Cursor[S] as a Cursor[P], applying post to each
// document as it is decoded. Iteration state, errors and cancellation belong
// entirely to the inner cursor; this adapter holds no buffer, so stopping
// consumption early stops the underlying production early.
type mappedCursor[S, P any] struct {
	inner Cursor[S]
	post  func(S) P
}

func (c *mappedCursor[S, P]) Next(ctx context.Context) bool {
	return c.inner.Next(ctx)
}

func (c *mappedCursor[S, P]) Decode(out *P) error {
	var doc S
	if err := c.inner.Decode(&doc); err != nil {
		return err
	}
	*out = c.post(doc)
	return nil
}

// All drains the remaining documents in order and closes the cursor. The
// transform still runs once per produced document.
func (c *mappedCursor[S, P]) All(ctx context.Context) ([]P, error) {
	defer c.Close(ctx)

	var docs []P
	for c.Next(ctx) {
		var doc P
		if err := c.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, c.Err()
}

func (c *mappedCursor[S, P]) Err() error {
	return c.inner.Err()
}

func (c *mappedCursor[S, P]) Close(ctx context.Context) error {
	return c.inner.Close(ctx)
}
