package prescription

import (
	"testing"
)

func seedDirectory(t *testing.T) *Directory {
	t.Helper()
	d := NewDirectory()
	d.Create("PAT-101", "EMP-301", "MED-0001", "10mg, once daily", 30, 3, "", "ENT-003", "POL-1")
	low := d.Create("PAT-101", "EMP-301", "MED-0002", "500mg, twice daily", 60, 2, "", "ENT-003", "POL-1")
	_ = low // 2 refills left: already in the refill window
	cancelled := d.Create("PAT-102", "EMP-302", "MED-0003", "5mg, at bedtime", 30, 3, "", "ENT-003", "POL-2")
	cancelled.Cancel()
	return d
}

func TestDirectoryCreateAndFind(t *testing.T) {
	d := seedDirectory(t)
	if d.Count() != 3 {
		t.Fatalf("count = %d, want 3", d.Count())
	}
	first := d.All()[0]
	got, err := d.FindByNumber(first.Number)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != first {
		t.Error("find returned a different prescription")
	}
	if _, err := d.FindByNumber("RX-0000-000000"); err == nil {
		t.Error("expected not-found error")
	}
}

func TestDirectoryFilters(t *testing.T) {
	d := seedDirectory(t)

	if got := len(d.ByPatient("PAT-101")); got != 2 {
		t.Errorf("ByPatient = %d, want 2", got)
	}
	if got := len(d.ActiveByPatient("PAT-102")); got != 0 {
		t.Errorf("ActiveByPatient for cancelled = %d, want 0", got)
	}
	if got := len(d.ByStatus(StatusCancelled)); got != 1 {
		t.Errorf("ByStatus(cancelled) = %d, want 1", got)
	}
	if got := d.CountForPatient("PAT-101"); got != 2 {
		t.Errorf("CountForPatient = %d, want 2", got)
	}
	if got := d.ActiveCountForPatient("PAT-101"); got != 2 {
		t.Errorf("ActiveCountForPatient = %d, want 2", got)
	}
}

func TestReadyForRefill(t *testing.T) {
	d := seedDirectory(t)

	ready := d.ReadyForRefill("PAT-101")
	if len(ready) != 1 {
		t.Fatalf("ReadyForRefill = %d, want 1", len(ready))
	}
	if ready[0].RefillsRemaining != 2 {
		t.Errorf("ready prescription has %d refills", ready[0].RefillsRemaining)
	}
	if got := d.ReadyForRefillCountForPatient("PAT-101"); got != 1 {
		t.Errorf("ReadyForRefillCountForPatient = %d, want 1", got)
	}
}

func TestProcessRefillFacade(t *testing.T) {
	d := NewDirectory()
	p := d.Create("PAT-101", "", "MED-0001", "10mg", 30, 1, "", "", "")

	if !d.ProcessRefill(p.Number) {
		t.Fatal("refill failed")
	}
	if p.Status != StatusCompleted {
		t.Errorf("status = %s, want completed after last refill", p.Status)
	}
	if d.ProcessRefill(p.Number) {
		t.Error("refill of completed prescription should be false")
	}
	if d.ProcessRefill("RX-0000-000000") {
		t.Error("refill of unknown prescription should be false")
	}
}

func TestCancelFacade(t *testing.T) {
	d := NewDirectory()
	p := d.Create("PAT-101", "", "MED-0001", "10mg", 30, 3, "", "", "")
	if !d.CancelPrescription(p.Number) {
		t.Fatal("cancel failed")
	}
	if p.Status != StatusCancelled {
		t.Errorf("status = %s, want cancelled", p.Status)
	}
}

func TestReconcileExpirations(t *testing.T) {
	d := NewDirectory()
	stale := d.Create("PAT-101", "", "MED-0001", "10mg", 30, 3, "", "", "")
	stale.ExpiryDate = today().AddDate(0, 0, -1)
	fresh := d.Create("PAT-101", "", "MED-0002", "20mg", 30, 3, "", "", "")

	if n := d.ReconcileExpirations(); n != 1 {
		t.Errorf("reconcile flipped %d, want 1", n)
	}
	if stale.Status != StatusExpired {
		t.Errorf("stale status = %s, want expired", stale.Status)
	}
	if fresh.Status != StatusActive {
		t.Errorf("fresh status = %s, want active", fresh.Status)
	}
}

func TestExpiringSoon(t *testing.T) {
	d := NewDirectory()
	soon := d.Create("PAT-101", "", "MED-0001", "10mg", 30, 3, "", "", "")
	soon.ExpiryDate = today().AddDate(0, 0, 10)
	d.Create("PAT-101", "", "MED-0002", "20mg", 30, 3, "", "", "")

	got := d.ExpiringSoon()
	if len(got) != 1 || got[0] != soon {
		t.Errorf("ExpiringSoon = %d, want just the 10-day prescription", len(got))
	}
}

func TestExportRestore(t *testing.T) {
	d := seedDirectory(t)
	d2 := NewDirectory()
	d2.Restore(d.Export())
	if d2.Count() != 3 {
		t.Errorf("restored count = %d, want 3", d2.Count())
	}
	d2.Clear()
	if !d2.IsEmpty() || d.Count() != 3 {
		t.Error("clear must only affect the cleared directory")
	}
}
