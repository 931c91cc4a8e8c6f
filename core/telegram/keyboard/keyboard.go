// Package keyboard builds reply and inline keyboards for bot screens.
package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes a convenience wrapper for inline button properties.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// RemoveKeyboard returns a markup that hides the keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// ReplyButtons builds a one-time reply keyboard from rows of text.
func ReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	var kb []tele.Row
	for _, row := range rows {
		var buttons []tele.Btn
		for _, label := range row {
			buttons = append(buttons, markup.Text(label))
		}
		kb = append(kb, markup.Row(buttons...))
	}
	markup.Reply(kb...)
	return markup
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = *markup.Data(btn.Text, btn.Unique, btn.Data).Inline()
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}

// InlineButtonsNPerRow splits a flat list of buttons into rows with up to n
// buttons per row. If n <= 1, each button gets its own row.
func InlineButtonsNPerRow(buttons []InlineBtn, n int) *tele.ReplyMarkup {
	if n <= 1 {
		rows := make([][]InlineBtn, 0, len(buttons))
		for _, b := range buttons {
			rows = append(rows, []InlineBtn{b})
		}
		return InlineButtonsRows(rows...)
	}
	var rows [][]InlineBtn
	for i := 0; i < len(buttons); i += n {
		end := i + n
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return InlineButtonsRows(rows...)
}

// ChunkStrings splits a flat list of labels into rows of up to n labels,
// for reply keyboards built from dynamic data such as category names.
func ChunkStrings(labels []string, n int) [][]string {
	if n <= 1 {
		out := make([][]string, 0, len(labels))
		for _, l := range labels {
			out = append(out, []string{l})
		}
		return out
	}
	var rows [][]string
	for i := 0; i < len(labels); i += n {
		end := i + n
		if end > len(labels) {
			end = len(labels)
		}
		rows = append(rows, labels[i:end])
	}
	return rows
}
