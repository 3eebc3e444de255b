package repos

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Nidish2/Climate-Platform/internal/types"
)

func TestCompanyMutations_WriteAuditEntries(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	companyRepo := NewCompanyRepo(db, log)
	auditRepo := NewAuditRepo(db, log)

	actor := uuid.New()
	ctx := actorContext(actor)

	company := &types.Company{Name: "Acme Carbon", Sector: "technology", Size: types.CompanyMedium, Country: "US"}
	if err := companyRepo.Create(ctx, nil, company); err != nil {
		t.Fatalf("create company: %v", err)
	}

	entries, err := auditRepo.ListByRecord(ctx, nil, "companies", company.ID)
	if err != nil {
		t.Fatalf("list audit entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 audit entry after create, got %d", len(entries))
	}
	if entries[0].Action != types.AuditInsert {
		t.Fatalf("expected INSERT action, got %s", entries[0].Action)
	}
	if entries[0].EntityTable != (types.Company{}).TableName() {
		t.Fatalf("expected companies on audit entry, got %s", entries[0].EntityTable)
	}
	if entries[0].UserID != actor {
		t.Fatalf("expected actor %s on audit entry, got %s", actor, entries[0].UserID)
	}

	company.Sector = "manufacturing"
	if err := companyRepo.Update(ctx, nil, company); err != nil {
		t.Fatalf("update company: %v", err)
	}

	entries, err = auditRepo.ListByRecord(ctx, nil, "companies", company.ID)
	if err != nil {
		t.Fatalf("list audit entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries after update, got %d", len(entries))
	}
	var update *types.AuditLogEntry
	for _, e := range entries {
		if e.Action == types.AuditUpdate {
			update = e
		}
	}
	if update == nil {
		t.Fatal("expected an UPDATE audit entry")
	}
	if len(update.OldValue) == 0 || len(update.NewValue) == 0 {
		t.Fatal("update audit entry should carry old and new values")
	}
}

func TestWeatherRecordCreate_NotAudited(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	weatherRepo := NewWeatherRepo(db, log)
	auditRepo := NewAuditRepo(db, log)

	ctx := actorContext(uuid.New())

	record := &types.WeatherRecord{Location: "Rotterdam", Kind: "observation"}
	if err := weatherRepo.CreateRecord(ctx, nil, record); err != nil {
		t.Fatalf("create weather record: %v", err)
	}

	entries, err := auditRepo.ListByRecord(ctx, nil, "weather_records", record.ID)
	if err != nil {
		t.Fatalf("list audit entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("append-only weather records must not be audited, got %d entries", len(entries))
	}
}
