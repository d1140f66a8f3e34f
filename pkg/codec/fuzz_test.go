package codec

import "testing"

// FuzzParseJSON feeds arbitrary bytes through parse, import and export.
// Run with: go test -fuzz=FuzzParseJSON -fuzztime=30s ./pkg/codec/
func FuzzParseJSON(f *testing.F) {
	f.Add([]byte(`{"states":["q0","q1"],"alphabet":["a"],"transitions":[{"from":"q0","symbol":"a","to":"q1"}],"start":"q0","accepting":["q1"]}`))
	f.Add([]byte(`{"states":["q0"],"transitions":[],"start":null,"accepting":[]}`))

	// edge cases
	f.Add([]byte(`{}`))
	f.Add([]byte(`[]`))
	f.Add([]byte(`null`))
	f.Add([]byte(``))
	f.Add([]byte(`{"states":["q0","q0"],"transitions":[{"from":"q9","symbol":"","to":"q0"}],"start":"q7","accepting":["q8"]}`))
	f.Add([]byte(`{"states":[""],"transitions":[{"from":"","symbol":"ab","to":""}]}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		doc, _, err := ParseJSON(data)
		if err != nil {
			return
		}
		g, _ := Import(doc)
		if err := g.Check(); err != nil {
			t.Fatalf("Imported graph violates invariants: %v", err)
		}
		if _, err := ToJSON(Export(g), false); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
	})
}
