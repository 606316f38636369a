package i18n

// loadEnglishMessages registers the English fallback strings.
func loadEnglishMessages() {
	m := messages[LangEN]

	m["greeting.casual"] = "Hi! 👋 How can I help?"
	m["greeting.formal"] = "Hello! How can I help?"
	m["greeting.daytime"] = "Good day! How can I help?"
	m["greeting.default"] = "Hi! How can I help?"

	m["command.help"] = "❓ Unknown command. Available commands:\n• /clear - clear storage\n• /reload - reload the page\n• /dashboard - dashboard\n• /library - library\n• /profile - profile"
	m["command.cancelled"] = "❌ Action cancelled."
	m["command.confirm.clear"] = "⚠️ Clear all storage? This cannot be undone!"
	m["command.confirm.reload"] = "⚠️ Reload the page?"
	m["command.confirm.dashboard"] = "⚠️ Go to the Dashboard page?"
	m["command.confirm.library"] = "⚠️ Go to the Library page?"
	m["command.confirm.profile"] = "⚠️ Go to your Profile?"
	m["command.done.clear"] = "✅ Storage cleared."
	m["command.done.reload"] = "✅ The page will be reloaded."
	m["command.done.dashboard"] = "✅ Navigating to the Dashboard..."
	m["command.done.library"] = "✅ Navigating to the Library..."
	m["command.done.profile"] = "✅ Navigating to your Profile..."

	m["status.init"] = "Ready. Ask me about the portal."
	m["status.ready"] = "Ready. Ask me more."
	m["status.loading_context"] = "Loading context..."
	m["status.searching"] = "Searching for relevant information..."
	m["status.generating"] = "Generating an answer..."
	m["status.rag_on"] = "RAG enabled"
	m["status.rag_off"] = "RAG disabled - plain answers"

	m["error.context"] = "Context is not loaded. Refresh the page."
	m["error.embedder"] = "Search model is not loaded. Refresh the page."
	m["error.engine"] = "Generation model is not loaded. Refresh the page."
	m["error.generation"] = "Error: failed to generate an answer. Try again."
	m["error.fallback"] = "Sorry, I cannot answer this question. Try rephrasing it."

	m["user.guest"] = "User: guest."
	m["user.named"] = "User: %s."
	m["user.profile"] = "Name: %s\nGroup: %s\nProgram: %s\nActive elevator floor: %s"
	m["user.no_name"] = "not set"
	m["user.no_group"] = "not assigned"
	m["user.no_program"] = "not set"
	m["user.no_floor"] = "unknown"
}
