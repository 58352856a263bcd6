//go:build js && wasm

// Command replaywasm exposes the round replay generator to the browser
// player as window.__beloteReplay(requestJSON) -> responseJSON.
package main

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"belote-lite/replay"
)

// initRequest names the round to rebuild and whose seat to watch it from.
// Viewer is a seat ("north".."west") or "observer"; empty shows everything.
type initRequest struct {
	Spec   replay.RoundSpec `json:"spec"`
	Viewer string           `json:"viewer,omitempty"`
}

type initResponse struct {
	OK     bool                   `json:"ok"`
	Viewer string                 `json:"viewer,omitempty"`
	Tape   *replay.WireReplayTape `json:"tape,omitempty"`
	Error  *replay.ReplayError    `json:"error,omitempty"`
}

func main() {
	js.Global().Set("__beloteReplay", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 || args[0].Type() != js.TypeString {
			return encode(failure("invalid_request", "expected a JSON request string"))
		}
		return encode(buildTape(args[0].String()))
	}))

	select {}
}

func buildTape(raw string) initResponse {
	var req initRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return failure("invalid_json", err.Error())
	}

	tape, err := replay.GenerateReplayTape(req.Spec)
	if err == nil {
		tape, err = replay.ForViewer(tape, req.Viewer)
	}
	if err != nil {
		var replayErr *replay.ReplayError
		if errors.As(err, &replayErr) {
			return initResponse{Viewer: req.Viewer, Error: replayErr}
		}
		return failure("replay_generation_failed", err.Error())
	}
	return initResponse{
		OK:     true,
		Viewer: req.Viewer,
		Tape:   replay.ToWireReplayTape(tape),
	}
}

func failure(reason, msg string) initResponse {
	return initResponse{Error: &replay.ReplayError{StepIndex: -1, Reason: reason, Message: msg}}
}

func encode(resp initResponse) string {
	b, err := json.Marshal(resp)
	if err != nil {
		b, _ = json.Marshal(failure("marshal_failed", err.Error()))
	}
	return string(b)
}
