package practicum

import "fmt"

// ParseStatus renders the notification text for a homework record.
func ParseStatus(hw Homework) (string, error) {
	if hw.Name == nil {
		return "", missingFieldErr("homework_name")
	}
	if hw.Status == nil {
		return "", missingFieldErr("status")
	}
	verdict, ok := Verdicts[*hw.Status]
	if !ok {
		return "", unknownStatusErr(*hw.Status)
	}
	return fmt.Sprintf("Changed review status for %q. %s", *hw.Name, verdict), nil
}
