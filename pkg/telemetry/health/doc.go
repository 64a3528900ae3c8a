// Package health reports whether textstudio's dependencies are usable.
//
// Checks are registered by name and run concurrently with a per-check
// timeout. The report is served on GET /health:
//
//	{
//	    "status": "ok",
//	    "provider": "openai",
//	    "checks": {
//	        "settings": {"status": "ok"},
//	        "journal":  {"status": "ok"},
//	        "provider": {"status": "unhealthy", "message": "OpenAI requires an API token"}
//	    },
//	    "timestamp": "2026-10-19T10:30:00Z"
//	}
//
// A failing check degrades the report and the handler answers 503.
package health
