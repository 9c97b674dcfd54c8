package model

import (
	"context"
	"testing"
)

func TestCategoryFields(t *testing.T) {
	var c Category
	for _, f := range Fields {
		if !f.Valid() {
			t.Errorf("%q should be valid", f)
		}
		if !c.Set(f, "v-"+string(f)) {
			t.Errorf("Set(%q) reported no change", f)
		}
		if got := c.Get(f); got != "v-"+string(f) {
			t.Errorf("Get(%q) = %q", f, got)
		}
	}
	if Field("colour").Valid() || c.Set("colour", "red") || c.Get("colour") != "" {
		t.Error("unknown field should be rejected")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if LangFromContext(ctx) != "en" || BasePathFromContext(ctx) != "" || CSRFTokenFromContext(ctx) != "" {
		t.Fatal("unexpected defaults")
	}
	ctx = ContextWithLang(ContextWithBasePath(ContextWithCSRFToken(ctx, "tok"), "/g"), "ru")
	if LangFromContext(ctx) != "ru" || BasePathFromContext(ctx) != "/g" || CSRFTokenFromContext(ctx) != "tok" {
		t.Error("values not stored")
	}
}
