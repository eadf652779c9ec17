// internal/catalog/catalog.go
//
// Human-readable names for the equipment and item IDs a password stores.
//
// Responsibilities:
//   - Load the name table once (sync.Once), from CATALOG_FILE if configured,
//     otherwise from the copy embedded in assets/catalog.txt.
//   - Resolve IDs to names (Name) and summarise a decoded State (Describe).
//
// File format: one entry per line, "kind id name", where kind is one of
// weapon, armor, shield, item. Blank lines and lines starting with '#' are
// skipped. An override file replaces the embedded table entirely.

package catalog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/robalobadob/dq1password/assets"
	"github.com/robalobadob/dq1password/internal/password"
)

// Kind selects one of the ID tables.
type Kind string

const (
	Weapon Kind = "weapon"
	Armor  Kind = "armor"
	Shield Kind = "shield"
	Item   Kind = "item"
)

// None is the name reported for ID 0.
const None = "(なし)"

var kinds = map[Kind]uint8{Weapon: 7, Armor: 7, Shield: 3, Item: 14}

type table map[Kind]map[uint8]string

var (
	initOnce   sync.Once
	names      table
	initialErr error
)

// Init loads the catalog exactly once. An empty path selects the embedded table.
func Init(path string) error {
	initOnce.Do(func() {
		var lines []string
		var err error
		if path != "" {
			lines, err = readFile(path)
		} else {
			lines, err = assets.CatalogLines()
		}
		if err != nil {
			initialErr = err
			return
		}
		names, initialErr = parse(lines)
	})
	return initialErr
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return assets.ReadLines(f)
}

func parse(lines []string) (table, error) {
	t := make(table, len(kinds))
	for k := range kinds {
		t[k] = make(map[uint8]string)
	}
	for _, line := range lines {
		parts := strings.Fields(line)
		if len(parts) < 3 {
			return nil, fmt.Errorf("catalog: malformed line %q", line)
		}
		kind := Kind(parts[0])
		limit, ok := kinds[kind]
		if !ok {
			return nil, fmt.Errorf("catalog: unknown kind %q", parts[0])
		}
		id, err := strconv.ParseUint(parts[1], 10, 8)
		if err != nil || id == 0 || id > uint64(limit) {
			return nil, fmt.Errorf("catalog: bad %s id %q (1..%d)", kind, parts[1], limit)
		}
		t[kind][uint8(id)] = strings.Join(parts[2:], " ")
	}
	return t, nil
}

// Name returns the display name of id in the given table.
// Unknown IDs render as "#<id>" so a partial override file still works.
func Name(kind Kind, id uint8) string {
	if id == 0 {
		return None
	}
	if n, ok := names[kind][id]; ok {
		return n
	}
	return "#" + strconv.Itoa(int(id))
}

// Summary is the named view of a decoded State.
type Summary struct {
	Weapon string   `json:"weapon"`
	Armor  string   `json:"armor"`
	Shield string   `json:"shield"`
	Items  []string `json:"items"` // occupied slots only, in slot order
}

// Describe names the equipment and inventory of s.
func Describe(s password.State) Summary {
	sum := Summary{
		Weapon: Name(Weapon, s.Weapon),
		Armor:  Name(Armor, s.Armor),
		Shield: Name(Shield, s.Shield),
		Items:  []string{},
	}
	for _, it := range s.Items {
		if it != 0 {
			sum.Items = append(sum.Items, Name(Item, it))
		}
	}
	return sum
}

// Stats returns the number of named entries per kind.
func Stats() map[Kind]int {
	out := make(map[Kind]int, len(names))
	for k, m := range names {
		out[k] = len(m)
	}
	return out
}
