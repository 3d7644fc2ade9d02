// Package output provides styled terminal output helpers (success, error,
// money and transaction formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tawahcm/soquy/internal/ledger"
	"github.com/tawahcm/soquy/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	typeStyles   = map[models.TxType]lipgloss.Style{
		models.TxIncome:   incomeStyle,
		models.TxExpense:  expenseStyle,
		models.TxTransfer: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// Title prints a bold heading
func Title(format string, args ...interface{}) {
	fmt.Println(titleStyle.Render(fmt.Sprintf(format, args...)))
}

// Subtle prints de-emphasized text
func Subtle(format string, args ...interface{}) {
	fmt.Println(subtleStyle.Render(fmt.Sprintf(format, args...)))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Money formats an amount in Vietnamese đồng with dot thousand
// separators, e.g. 1250000 -> "1.250.000đ".
func Money(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}
	b.WriteString("đ")
	return b.String()
}

// SignedMoney formats an amount with the sign implied by the type:
// +income, -expense, plain transfer.
func SignedMoney(t models.TxType, amount int64) string {
	switch t {
	case models.TxIncome:
		return incomeStyle.Render("+" + Money(amount))
	case models.TxExpense:
		return expenseStyle.Render("-" + Money(amount))
	}
	return Money(amount)
}

// FormatType renders a transaction type tag with color
func FormatType(t models.TxType) string {
	style, ok := typeStyles[t]
	if !ok {
		return string(t)
	}
	return style.Render(fmt.Sprintf("[%s]", t))
}

// PendingTag returns the marker shown next to not-yet-confirmed rows.
func PendingTag() string {
	return pendingStyle.Render("(chờ sync)")
}

// FormatEntry renders one merged ledger row for list output.
func FormatEntry(e *ledger.Entry) string {
	var b strings.Builder
	b.WriteString(subtleStyle.Render(e.EffectiveAt.Format("02/01 15:04")))
	b.WriteString("  ")
	b.WriteString(FormatType(e.Tx.Type))
	b.WriteString(" ")
	b.WriteString(SignedMoney(e.Tx.Type, e.Tx.Amount))

	if e.Tx.Type == models.TxTransfer {
		b.WriteString(fmt.Sprintf("  %s → %s", e.Tx.FromWallet, e.Tx.ToWallet))
	} else {
		if e.Tx.Category != "" {
			b.WriteString("  " + e.Tx.Category)
		}
		if e.Tx.Wallet != "" {
			b.WriteString(subtleStyle.Render("  (" + e.Tx.Wallet + ")"))
		}
	}
	if e.Tx.Note != "" {
		b.WriteString(subtleStyle.Render("  " + e.Tx.Note))
	}
	if e.Pending {
		b.WriteString("  " + PendingTag())
	}
	b.WriteString(subtleStyle.Render("  #" + e.Ref()))
	return b.String()
}

// Bar renders a proportional bar for chart output, width characters at
// full scale.
func Bar(value, max int64, width int) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	n := int(value * int64(width) / max)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
