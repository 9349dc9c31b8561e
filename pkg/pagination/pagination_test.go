package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(newContext(""))
	if p.Limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Offset != 0 {
		t.Errorf("offset = %d, want 0", p.Offset)
	}
}

func TestFromContext_Explicit(t *testing.T) {
	p := FromContext(newContext("limit=5&offset=10"))
	if p.Limit != 5 {
		t.Errorf("limit = %d, want 5", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("offset = %d, want 10", p.Offset)
	}
}

func TestFromContext_CapsLimit(t *testing.T) {
	p := FromContext(newContext("limit=5000"))
	if p.Limit != MaxLimit {
		t.Errorf("limit = %d, want %d", p.Limit, MaxLimit)
	}
}

func TestFromContext_NegativeValues(t *testing.T) {
	p := FromContext(newContext("limit=-1&offset=-5"))
	if p.Limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Offset != 0 {
		t.Errorf("offset = %d, want 0", p.Offset)
	}
}

func TestPage_Slices(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	page, total := Page(items, Params{Limit: 2, Offset: 2})
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 || page[0] != 3 || page[1] != 4 {
		t.Errorf("page = %v, want [3 4]", page)
	}
}

func TestPage_OffsetPastEnd(t *testing.T) {
	page, total := Page([]int{1, 2}, Params{Limit: 10, Offset: 5})
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(page) != 0 {
		t.Errorf("expected empty page, got %v", page)
	}
}

func TestPage_PartialLastPage(t *testing.T) {
	page, _ := Page([]int{1, 2, 3}, Params{Limit: 10, Offset: 2})
	if len(page) != 1 || page[0] != 3 {
		t.Errorf("page = %v, want [3]", page)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse(nil, 50, 20, 0)
	if !r.HasMore {
		t.Error("expected has_more for first page of 50")
	}
	r = NewResponse(nil, 50, 20, 40)
	if r.HasMore {
		t.Error("expected no has_more on last page")
	}
}

func TestOffsetNavigation(t *testing.T) {
	p := Params{Limit: 20, Offset: 20}
	if !p.HasNext(50) {
		t.Error("expected next page at offset 20 of 50")
	}
	if !p.HasPrevious() {
		t.Error("expected previous page at offset 20")
	}
	if p.NextOffset() != 40 {
		t.Errorf("next offset = %d, want 40", p.NextOffset())
	}
	if p.PreviousOffset() != 0 {
		t.Errorf("previous offset = %d, want 0", p.PreviousOffset())
	}
	if (Params{Limit: 20, Offset: 5}).PreviousOffset() != 0 {
		t.Error("previous offset should clamp at 0")
	}
}
