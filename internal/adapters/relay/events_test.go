package relay

import "testing"

func TestCheckPayload(t *testing.T) {
	cases := []struct {
		name  string
		event string
		data  string
		ok    bool
	}{
		{"reset bare", EvReset, `{"type":"reset"}`, true},
		{"click", EvClick, `{"type":"click","row":3,"col":4}`, true},
		{"click zero cell", EvClick, `{"type":"click","row":0,"col":0}`, true},
		{"click missing col", EvClick, `{"type":"click","row":3}`, false},
		{"click negative row", EvFlag, `{"type":"flag","row":-1,"col":4}`, false},
		{"click wrong type", EvClick, `{"type":"click","row":"x","col":4}`, false},
		{"bot", EvBot, `{"type":"bot","active":true}`, true},
		{"bot missing flag", EvHighlight, `{"type":"highlight"}`, false},
		{"settings", EvSettingsChanged, `{"type":"settingsChanged","settings":{"nRows":9,"nCols":9,"nMines":10,"randomSeed":42}}`, true},
		{"settings zero rows", EvSettingsChanged, `{"type":"settingsChanged","settings":{"nRows":0,"nCols":9,"nMines":10,"randomSeed":42}}`, false},
		{"settings absent", EvSettingsChanged, `{"type":"settingsChanged"}`, false},
		{"pointer", EvPointerMove, `{"type":"pointerMove","cursor":{"x":1.5,"y":2}}`, true},
		{"pointer no cursor", EvPointerMove, `{"type":"pointerMove"}`, false},
		{"sync", EvSync, `{"type":"sync","history":[{"anything":true}],"historyIndex":0,"settings":{"nRows":9,"nCols":9,"nMines":10,"randomSeed":1},"gameTime":12.5}`, true},
		{"sync null time", EvSync, `{"type":"sync","history":[{}],"historyIndex":0,"settings":{"nRows":9,"nCols":9,"nMines":10,"randomSeed":1},"gameTime":null}`, true},
		{"sync negative index", EvSync, `{"type":"sync","history":[{}],"historyIndex":-1,"settings":{"nRows":9,"nCols":9,"nMines":10,"randomSeed":1},"gameTime":null}`, false},
		{"unknown event", "teleport", `{"type":"teleport"}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkPayload(tc.event, []byte(tc.data))
			if tc.ok && err != nil {
				t.Fatalf("checkPayload(%s) = %v, want nil", tc.event, err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("checkPayload(%s) accepted %s", tc.event, tc.data)
			}
		})
	}
}
