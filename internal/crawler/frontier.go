package crawler

import "net/url"

// frontierItem is a discovered-but-unvisited URL and the depth it was
// found at.
type frontierItem struct {
	u     *url.URL
	depth int
}

// frontier is a strict FIFO queue of pending URLs. FIFO dequeue order is
// what makes the traversal breadth-first: every depth-D item is visited
// before any depth-(D+1) item. The enqueued set guarantees a URL enters the
// queue at most once per crawl.
type frontier struct {
	items    []frontierItem
	enqueued map[string]bool
}

func newFrontier() *frontier {
	return &frontier{enqueued: make(map[string]bool)}
}

// push enqueues u at depth unless its normalized form was already enqueued.
func (f *frontier) push(u *url.URL, depth int) bool {
	key := NormalizeURL(u)
	if f.enqueued[key] {
		return false
	}
	f.enqueued[key] = true
	f.items = append(f.items, frontierItem{u: u, depth: depth})
	return true
}

// pop dequeues the earliest-enqueued item.
func (f *frontier) pop() frontierItem {
	item := f.items[0]
	f.items = f.items[1:]
	return item
}

func (f *frontier) empty() bool {
	return len(f.items) == 0
}

func (f *frontier) len() int {
	return len(f.items)
}
