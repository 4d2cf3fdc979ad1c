package testutil

// Sample output streams, one per agent, as the tools print them. Each stream
// mixes in a line of plain text, which the parser must drop.
var (
	ClaudeStream = []string{
		`{"type":"system","subtype":"init","session_id":"c1a2b3"}`,
		`{"type":"user","content":"fix the build"}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"Looking."}]},"session_id":"c1a2b3"}`,
		`Warning: terminal is not a tty`,
		`{"type":"result","subtype":"success","result":"Build fixed.","session_id":"c1a2b3"}`,
	}

	CodexStream = []string{
		`{"type":"thread.started","thread_id":"th-42"}`,
		`{"type":"user.input","text":"write tests"}`,
		`{"type":"item.completed","item":{"id":"i1","type":"agent_message","text":"Tests written."}}`,
		`not json at all`,
		`{"type":"turn.completed","usage":{"input_tokens":10}}`,
	}

	GeminiStream = []string{
		`{"type":"init","session_id":"gm-7","model":"gemini-3-pro"}`,
		`{"type":"message","role":"user","content":"summarize"}`,
		`{"type":"message","role":"assistant","content":"Part one. "}`,
		`{"type":"message","role":"assistant","content":"Part two."}`,
		`{"type":"result","status":"success"}`,
	}

	OpenCodeStream = []string{
		`{"type":"step_start","sessionID":"ses_oc1","part":{"type":"step-start"}}`,
		`{"type":"text","sessionID":"ses_oc1","part":{"text":"hi"}}`,
		`[opencode] spinner`,
		`{"type":"step_finish","sessionID":"ses_oc1","part":{"reason":"stop"}}`,
	}
)
