//go:build js && wasm

// Command wasm runs the landing page countdown and phone formatting in the
// browser without a server round trip. Build it into STATIC_DIR and point
// WASM_URL at it:
//
//	GOOS=js GOARCH=wasm go build -o static/landing.wasm ./cmd/wasm
//	cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" static/
//
// With STATIC_DIR=static and WASM_URL=static/landing.wasm the page loads it in
// place of the inline stream client.
package main

import (
	"context"
	"strconv"
	"syscall/js"
	"time"

	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/countdown"
	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/phone"
)

func byID(doc js.Value, id string) (js.Value, bool) {
	el := doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return js.Value{}, false
	}
	return el, true
}

// scheduleFrom reads the slot the server rendered on #countdown, falling back
// to Wednesday evening when the attributes are missing or invalid.
func scheduleFrom(doc js.Value) countdown.Schedule {
	box, ok := byID(doc, "countdown")
	if !ok {
		return countdown.WednesdayEvening()
	}
	data := box.Get("dataset")
	weekday, err := strconv.Atoi(data.Get("weekday").String())
	if err != nil {
		return countdown.WednesdayEvening()
	}
	hour, err := strconv.Atoi(data.Get("hour").String())
	if err != nil {
		return countdown.WednesdayEvening()
	}
	s, err := countdown.NewSchedule(data.Get("timezone").String(), time.Weekday(weekday), hour)
	if err != nil {
		return countdown.WednesdayEvening()
	}
	return s
}

// startCountdown renders into #d #h #m #s every second. Nothing is rendered
// unless all four elements exist.
func startCountdown(doc js.Value) {
	var els [4]js.Value
	for i, id := range []string{"d", "h", "m", "s"} {
		el, ok := byID(doc, id)
		if !ok {
			return
		}
		els[i] = el
	}

	cd := countdown.New(scheduleFrom(doc))
	go cd.Run(context.Background(), time.Second, func(s countdown.Snapshot) {
		els[0].Set("textContent", s.Days)
		els[1].Set("textContent", s.Hours)
		els[2].Set("textContent", s.Minutes)
		els[3].Set("textContent", s.Seconds)
	})
}

func bindPhone(doc js.Value) {
	tel, ok := byID(doc, "tel")
	if !ok {
		return
	}
	tel.Call("addEventListener", "input", js.FuncOf(func(this js.Value, args []js.Value) any {
		target := args[0].Get("target")
		caret := 0
		if sel := target.Get("selectionStart"); sel.Type() == js.TypeNumber {
			caret = sel.Int()
		}
		formatted, pos := phone.FormatInput(target.Get("value").String(), caret)
		target.Set("value", formatted)
		target.Call("setSelectionRange", pos, pos)
		return nil
	}))
}

// bindSubmit dims the submit control while the form posts and restores it
// when the page is shown again from history.
func bindSubmit(doc js.Value) {
	form, ok := byID(doc, "leadForm")
	if !ok {
		return
	}
	btn, ok := byID(doc, "cta")
	if !ok {
		return
	}
	setEnabled := func(enabled bool) {
		btn.Set("disabled", !enabled)
		opacity := "1"
		if !enabled {
			opacity = "0.7"
		}
		btn.Get("style").Set("opacity", opacity)
	}

	form.Call("addEventListener", "submit", js.FuncOf(func(this js.Value, args []js.Value) any {
		setEnabled(false)
		return nil
	}))
	js.Global().Call("addEventListener", "pageshow", js.FuncOf(func(this js.Value, args []js.Value) any {
		setEnabled(true)
		return nil
	}))
}

func main() {
	doc := js.Global().Get("document")

	startCountdown(doc)
	bindPhone(doc)
	bindSubmit(doc)

	select {}
}
