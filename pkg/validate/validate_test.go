package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validMember() MemberInput {
	return MemberInput{
		Name:     "Ananya Rao",
		College:  "ABC Institute",
		Email:    "ananya@example.com",
		WhatsApp: "+91 98765 43210",
		Photo:    "data:image/jpeg;base64,/9j/",
	}
}

func validReport() ReportInput {
	return ReportInput{
		Name:    "Ananya Rao",
		College: "ABC Institute",
		Details: "Leaking roof in block C",
	}
}

func TestValidInputsHaveNoViolations(t *testing.T) {
	assert.Empty(t, Report(validReport()))
	assert.Empty(t, Member(validMember()))
	assert.NoError(t, Member(validMember()).Err())
}

func TestMemberSingleOmission(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MemberInput)
		want   string
	}{
		{"name", func(m *MemberInput) { m.Name = "   " }, "Name is required"},
		{"college", func(m *MemberInput) { m.College = "" }, "College is required"},
		{"email", func(m *MemberInput) { m.Email = "" }, "Email is required"},
		{"whatsapp", func(m *MemberInput) { m.WhatsApp = "" }, "WhatsApp number is required"},
		{"photo", func(m *MemberInput) { m.Photo = "" }, "Photo is required"},
		{"email shape", func(m *MemberInput) { m.Email = "ananya at example" }, "Please enter a valid email"},
		{"email whitespace", func(m *MemberInput) { m.Email = "an anya@example.com" }, "Please enter a valid email"},
		{"short phone", func(m *MemberInput) { m.WhatsApp = "98765" }, "Please enter a valid 10-digit WhatsApp number"},
		{"landline prefix", func(m *MemberInput) { m.WhatsApp = "0801234567" }, "Please enter a valid 10-digit WhatsApp number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validMember()
			tt.mutate(&in)
			assert.Equal(t, Violations{tt.want}, Member(in))
		})
	}
}

func TestReportSingleOmission(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ReportInput)
		want   string
	}{
		{"name", func(r *ReportInput) { r.Name = "" }, "Name is required"},
		{"college", func(r *ReportInput) { r.College = "\t" }, "College is required"},
		{"details", func(r *ReportInput) { r.Details = " " }, "Please describe the problem"},
		{"too long", func(r *ReportInput) { r.Details = strings.Repeat("a", 1001) }, "Problem details are too long (max 1000 chars)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validReport()
			tt.mutate(&in)
			assert.Equal(t, Violations{tt.want}, Report(in))
		})
	}
}

func TestAllViolationsCollected(t *testing.T) {
	got := Member(MemberInput{Email: "nope", WhatsApp: "123"})

	assert.Equal(t, Violations{
		"Name is required",
		"College is required",
		"Photo is required",
		"Please enter a valid email",
		"Please enter a valid 10-digit WhatsApp number",
	}, got)
	assert.Equal(t, strings.Join(got, " • "), got.Error())
}

func TestMissingFieldsListedBeforeMalformed(t *testing.T) {
	got := Member(MemberInput{Name: "Ravi", Email: "ravi@", WhatsApp: " "})

	assert.Equal(t, Violations{
		"College is required",
		"WhatsApp number is required",
		"Photo is required",
		"Please enter a valid email",
	}, got)
}

func TestDetailsLengthCountsCharacters(t *testing.T) {
	in := validReport()
	in.Details = strings.Repeat("é", 1000)
	assert.Empty(t, Report(in))
}

func TestNormalizeWhatsApp(t *testing.T) {
	assert.Equal(t, "9876543210", NormalizeWhatsApp("+91-98765-43210"))
	assert.Equal(t, "98765", NormalizeWhatsApp("98 765"))
	assert.True(t, IsWhatsApp("09876543210"))
	assert.False(t, IsWhatsApp("5876543210"))
}

func TestTrimDetails(t *testing.T) {
	assert.Equal(t, "short", TrimDetails("short"))
	long := strings.Repeat("ü", 1200)
	assert.Equal(t, MaxDetailsLength, len([]rune(TrimDetails(long))))
}
