package ai

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
		check  func(t *testing.T, m map[string]any)
	}{
		{
			name:   "plain object",
			raw:    `{"type": "expense", "amount": 35}`,
			wantOK: true,
			check: func(t *testing.T, m map[string]any) {
				if m["type"] != "expense" {
					t.Errorf("type = %v", m["type"])
				}
				if m["amount"] != 35.0 {
					t.Errorf("amount = %v", m["amount"])
				}
			},
		},
		{
			name:   "json fence",
			raw:    "```json\n{\"category\": \"餐饮\"}\n```",
			wantOK: true,
			check: func(t *testing.T, m map[string]any) {
				if m["category"] != "餐饮" {
					t.Errorf("category = %v", m["category"])
				}
			},
		},
		{
			name:   "bare fence",
			raw:    "```\n{\"amount\": 1.5}\n```",
			wantOK: true,
			check: func(t *testing.T, m map[string]any) {
				if m["amount"] != 1.5 {
					t.Errorf("amount = %v", m["amount"])
				}
			},
		},
		{
			name:   "object wrapped in prose",
			raw:    `好的，识别结果如下：{"merchant": "星巴克"} 希望对你有帮助`,
			wantOK: true,
			check: func(t *testing.T, m map[string]any) {
				if m["merchant"] != "星巴克" {
					t.Errorf("merchant = %v", m["merchant"])
				}
			},
		},
		{
			name:   "nested object taken greedily",
			raw:    `{"a": {"b": 1}}`,
			wantOK: true,
			check: func(t *testing.T, m map[string]any) {
				inner, ok := m["a"].(map[string]any)
				if !ok || inner["b"] != 1.0 {
					t.Errorf("a = %v", m["a"])
				}
			},
		},
		{
			name:   "no braces",
			raw:    "抱歉，我没有看懂",
			wantOK: false,
		},
		{
			name:   "empty string",
			raw:    "",
			wantOK: false,
		},
		{
			name:   "malformed object",
			raw:    `{"type": expense}`,
			wantOK: false,
		},
		{
			name:   "reversed braces",
			raw:    "} oops {",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ExtractJSONObject(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
