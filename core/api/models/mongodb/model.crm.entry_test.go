// Package models - Test history FIFO và chuẩn hóa products của Entry.
package models

import (
	"fmt"
	"testing"
)

func TestAppendHistory_GiuToiDa10Snapshot(t *testing.T) {
	e := &Entry{}
	for i := 0; i < HistoryMaxLen+1; i++ {
		e.AppendHistory(HistorySnapshot{Remarks: fmt.Sprintf("snapshot-%d", i)})
	}

	if len(e.History) != HistoryMaxLen {
		t.Fatalf("history phải có đúng %d snapshot, có %d", HistoryMaxLen, len(e.History))
	}
	// Snapshot cũ nhất (index 0) phải bị loại
	if e.History[0].Remarks != "snapshot-1" {
		t.Errorf("snapshot cũ nhất phải bị loại, đầu danh sách là %q", e.History[0].Remarks)
	}
	if e.History[len(e.History)-1].Remarks != fmt.Sprintf("snapshot-%d", HistoryMaxLen) {
		t.Errorf("snapshot mới nhất phải ở cuối, cuối danh sách là %q", e.History[len(e.History)-1].Remarks)
	}
}

func TestAppendHistory_DuoiCapGiuNguyen(t *testing.T) {
	e := &Entry{}
	for i := 0; i < 3; i++ {
		e.AppendHistory(HistorySnapshot{Remarks: fmt.Sprintf("snapshot-%d", i)})
	}
	if len(e.History) != 3 {
		t.Fatalf("history dưới cap phải giữ nguyên, có %d snapshot", len(e.History))
	}
	if e.History[0].Remarks != "snapshot-0" {
		t.Errorf("thứ tự snapshot phải giữ nguyên, đầu danh sách là %q", e.History[0].Remarks)
	}
}

func TestNormalizeProducts(t *testing.T) {
	t.Run("danh sách rỗng thành No Requirement", func(t *testing.T) {
		got := NormalizeProducts(nil)
		if len(got) != 1 || got[0].Name != NoRequirementProduct.Name {
			t.Fatalf("products rỗng phải thành [No Requirement], có %+v", got)
		}
	})

	t.Run("toàn phần tử không tên thành No Requirement", func(t *testing.T) {
		got := NormalizeProducts([]Product{{Quantity: 5}, {Specification: "x"}})
		if len(got) != 1 || got[0].Name != NoRequirementProduct.Name {
			t.Fatalf("products không tên phải thành [No Requirement], có %+v", got)
		}
	})

	t.Run("phần tử không tên bị loại, có tên giữ lại", func(t *testing.T) {
		got := NormalizeProducts([]Product{{Name: "Van", Quantity: 2}, {Quantity: 1}})
		if len(got) != 1 || got[0].Name != "Van" {
			t.Fatalf("chỉ giữ sản phẩm có tên, có %+v", got)
		}
	})
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses {
		if !IsValidStatus(s) {
			t.Errorf("status %q phải hợp lệ", s)
		}
	}
	if IsValidStatus("Done") {
		t.Error("status ngoài enum không được hợp lệ")
	}
	if IsValidStatus("") {
		t.Error("status rỗng không được hợp lệ")
	}
}

func TestIsValidCloseType(t *testing.T) {
	if !IsValidCloseType("") {
		t.Error("closetype rỗng (chưa chốt) phải hợp lệ")
	}
	if !IsValidCloseType(CloseTypeWon) || !IsValidCloseType(CloseTypeLost) {
		t.Error("Closed Won / Closed Lost phải hợp lệ")
	}
	if IsValidCloseType("Won") {
		t.Error("closetype ngoài enum không được hợp lệ")
	}
}
