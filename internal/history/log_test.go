package history

import (
	"testing"

	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

func newRecord(t *testing.T, stepID string) *Record {
	t.Helper()
	rec := NewRecord(stepID, stepID, params.NewBag())
	rec.Finalize(step.NewSuccess("ok"), nil)
	return rec
}

func TestLog_AppendAndAll(t *testing.T) {
	log := NewLog()

	log.Append(newRecord(t, "a"))
	log.Append(newRecord(t, "b"))
	log.Append(newRecord(t, "c"))

	all := log.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}

	// Записи в порядке добавления
	for i, want := range []string{"a", "b", "c"} {
		if all[i].StepID != want {
			t.Errorf("record %d: expected %s, got %s", i, want, all[i].StepID)
		}
	}
}

func TestLog_All_ReturnsCopy(t *testing.T) {
	log := NewLog()
	log.Append(newRecord(t, "a"))

	all := log.All()
	all[0] = newRecord(t, "tampered")

	if log.All()[0].StepID != "a" {
		t.Error("mutating the returned slice should not affect the log")
	}
}

func TestLog_Recent(t *testing.T) {
	log := NewLog()
	for _, id := range []string{"a", "b", "c", "d"} {
		log.Append(newRecord(t, id))
	}

	recent := log.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].StepID != "c" || recent[1].StepID != "d" {
		t.Errorf("expected [c d], got [%s %s]", recent[0].StepID, recent[1].StepID)
	}
}

func TestLog_Recent_Clamps(t *testing.T) {
	log := NewLog()
	log.Append(newRecord(t, "a"))

	// Запрос больше размера журнала возвращает всё
	if got := log.Recent(100); len(got) != 1 {
		t.Errorf("expected 1 record, got %d", len(got))
	}

	// Неположительный запрос — пустой результат
	if got := log.Recent(0); len(got) != 0 {
		t.Errorf("expected 0 records, got %d", len(got))
	}
	if got := log.Recent(-5); len(got) != 0 {
		t.Errorf("expected 0 records, got %d", len(got))
	}
}

func TestLog_Clear(t *testing.T) {
	log := NewLog()
	log.Append(newRecord(t, "a"))
	log.Append(newRecord(t, "b"))

	log.Clear()

	if log.Len() != 0 {
		t.Errorf("expected empty log, got %d", log.Len())
	}

	// Журнал остаётся рабочим после очистки
	log.Append(newRecord(t, "c"))
	if log.Len() != 1 {
		t.Errorf("expected 1 record after clear, got %d", log.Len())
	}
}

func TestMultiAppender(t *testing.T) {
	first := NewLog()
	second := NewLog()

	tee := MultiAppender(first, second)
	tee.Append(newRecord(t, "a"))

	if first.Len() != 1 {
		t.Errorf("first log should receive the record, got %d", first.Len())
	}
	if second.Len() != 1 {
		t.Errorf("second log should receive the record, got %d", second.Len())
	}
}

func TestRecord_Finalize_ClampsTime(t *testing.T) {
	rec := NewRecord("a", "", params.NewBag())
	rec.Finalize(step.NewSuccess(""), nil)

	if rec.FinishedAt.Before(rec.StartedAt) {
		t.Error("FinishedAt must not precede StartedAt")
	}
	if !rec.Success {
		t.Error("record should reflect outcome success")
	}
}
