package pipeline

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadItems decodes input items from r: either one JSON array of objects or
// a stream of objects (NDJSON). Empty input yields no items.
func ReadItems(r io.Reader) ([]Item, error) {
	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return []Item{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	dec := json.NewDecoder(br)

	if first == '[' {
		var items []Item
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("decode item array: %w", err)
		}

		for i, it := range items {
			if it == nil {
				return nil, fmt.Errorf("item %d: not an object", i)
			}
		}

		return items, nil
	}

	items := []Item{}

	for {
		var it Item

		err := dec.Decode(&it)
		if errors.Is(err, io.EOF) {
			return items, nil
		}

		if err != nil {
			return nil, fmt.Errorf("decode item %d: %w", len(items), err)
		}

		if it == nil {
			return nil, fmt.Errorf("item %d: not an object", len(items))
		}

		items = append(items, it)
	}
}

// ReadItemsFile reads items from path; "-" reads stdin.
func ReadItemsFile(path string) ([]Item, error) {
	if path == "-" {
		return ReadItems(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadItems(f)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}

		if !bytes.ContainsRune([]byte(" \t\r\n"), rune(b)) {
			return b, br.UnreadByte()
		}
	}
}
