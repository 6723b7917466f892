package funcs

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

var TemplateFuncs = template.FuncMap{
	"now":        time.Now,
	"formatTime": formatTime,
	"upper":      strings.ToUpper,
	"naira":      naira,
}

func formatTime(format string, t time.Time) string {
	return t.Format(format)
}

func naira(amount string) string {
	return fmt.Sprintf("NGN %s", amount)
}
