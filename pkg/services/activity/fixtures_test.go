package activity

import (
	"fmt"
	"time"

	"github.com/de-tools/activity-atlas/pkg/models/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(t time.Time) *time.Time {
	return &t
}

type entryBuilder struct {
	seq int
}

func (b *entryBuilder) add(name string, published *time.Time, subject string) domain.Entry {
	b.seq++
	return domain.Entry{
		ID:          fmt.Sprintf("e%d", b.seq),
		Responsible: name,
		Nature:      "Citação",
		Category:    domain.CategoryCitation,
		PublishedAt: published,
		Subject:     subject,
	}
}

// aliceBobEntries: 3 x Alice and 2 x Bob in 2024-01, 1 x Alice in 2024-02.
func aliceBobEntries() []domain.Entry {
	b := &entryBuilder{}
	return []domain.Entry{
		b.add("Alice", at(day(2024, 1, 3)), "Licitação"),
		b.add("Alice", at(day(2024, 1, 10)), "Contrato"),
		b.add("Bob", at(day(2024, 1, 12)), "Licitação"),
		b.add("Alice", at(day(2024, 1, 31)), "Licitação"),
		b.add("Bob", at(day(2024, 1, 5)), "Contrato"),
		b.add("Alice", at(day(2024, 2, 1)), "Contrato"),
	}
}
