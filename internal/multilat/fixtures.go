package multilat

import (
	"sort"

	"multilat/pkg/geometry"
)

// Fixture is a named example input.
type Fixture struct {
	Name        string
	Description string
	Circles     []geometry.Circle
}

func circ(x, y, r float64) geometry.Circle {
	return geometry.NewCircle(x, y, r)
}

var fixtures = map[string]Fixture{
	"three-clusters": {
		Name:        "three-clusters",
		Description: "14 circles: groups near (3,27), (25,25), (25,5), a pair near (4,3) and a stray pair near (20,12)",
		Circles: []geometry.Circle{
			circ(6, 27, 3), circ(3, 25, 2), circ(0, 30, 4),
			circ(27, 27, 3), circ(26, 27, 2.15), circ(24, 30, 4), circ(22, 22, 4),
			circ(28, 4, 1.5), circ(26, 3, 2), circ(25.77, 6.8, 2.7),
			circ(3, 3, 1.5), circ(4.5, 3.5, 2),
			circ(19, 11, 1.5), circ(20, 14, 2),
		},
	},
	"two-sources": {
		Name:        "two-sources",
		Description: "four circles around (3,4) and a close pair near (8,6)",
		Circles: []geometry.Circle{
			circ(3, 4, 1.2), circ(3, 7, 3), circ(5, 4, 1), circ(0, 0, 5.66),
			circ(7.5, 6, 2), circ(8, 6, 1.5),
		},
	},
	"contained": {
		Name:        "contained",
		Description: "one wide circle containing smaller ones, plus a contained pair",
		Circles: []geometry.Circle{
			circ(15, 15, 6.5), circ(12, 15, 2), circ(17, 15, 3), circ(24, 17, 3.5),
			circ(8, 6, 1), circ(7.5, 6, 1.5),
		},
	},
	"shifted-triples": {
		Name:        "shifted-triples",
		Description: "two overlapping copies of the same three circles shifted by 3 units",
		Circles: []geometry.Circle{
			circ(6, 27, 3), circ(3, 25, 2), circ(0, 30, 4),
			circ(9, 27, 3), circ(6, 25, 2), circ(3, 30, 4),
		},
	},
	"two-circles": {
		Name:        "two-circles",
		Description: "two intersecting circles",
		Circles:     []geometry.Circle{circ(5, 5, 2), circ(8, 5, 3)},
	},
	"one-circle": {
		Name:        "one-circle",
		Description: "a single circle",
		Circles:     []geometry.Circle{circ(3, 3, 2)},
	},
}

// LookupFixture returns a copy of the named fixture.
func LookupFixture(name string) (Fixture, bool) {
	f, ok := fixtures[name]
	if !ok {
		return Fixture{}, false
	}
	f.Circles = cloneCircles(f.Circles)
	return f, true
}

// FixtureNames returns the fixture names in sorted order.
func FixtureNames() []string {
	names := make([]string, 0, len(fixtures))
	for name := range fixtures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
