package i18n

// loadRussianMessages registers the primary portal strings.
func loadRussianMessages() {
	m := messages[LangRU]

	// Greetings
	m["greeting.casual"] = "Привет! 👋 Чем могу помочь?"
	m["greeting.formal"] = "Здравствуйте! Чем могу помочь?"
	m["greeting.daytime"] = "Добрый день! Чем могу помочь?"
	m["greeting.default"] = "Привет! Чем могу помочь?"

	// Command flow
	m["command.help"] = "❓ Неизвестная команда. Доступные команды:\n• /clear - очистить хранилище\n• /reload - перезагрузить\n• /dashboard - дашборд\n• /library - библиотека\n• /profile - личный кабинет"
	m["command.cancelled"] = "❌ Действие отменено."
	m["command.confirm.clear"] = "⚠️ Очистить всё хранилище? Это действие нельзя отменить!"
	m["command.confirm.reload"] = "⚠️ Перезагрузить страницу?"
	m["command.confirm.dashboard"] = "⚠️ Перейти на страницу Дашборда?"
	m["command.confirm.library"] = "⚠️ Перейти на страницу Библиотеки?"
	m["command.confirm.profile"] = "⚠️ Перейти в Личный кабинет?"
	m["command.done.clear"] = "✅ Хранилище очищено."
	m["command.done.reload"] = "✅ Страница будет перезагружена."
	m["command.done.dashboard"] = "✅ Переход на страницу Дашборда..."
	m["command.done.library"] = "✅ Переход на страницу Библиотеки..."
	m["command.done.profile"] = "✅ Переход в Личный кабинет..."

	// Status line
	m["status.init"] = "Готово. Спросите меня о портале."
	m["status.ready"] = "Готово. Спросите ещё."
	m["status.loading_context"] = "Загружаю контекст..."
	m["status.searching"] = "Ищу релевантную информацию..."
	m["status.generating"] = "Генерирую ответ..."
	m["status.rag_on"] = "RAG включен"
	m["status.rag_off"] = "RAG выключен - простые ответы"

	// Errors surfaced in chat
	m["error.context"] = "Контекст не загружен. Обновите страницу."
	m["error.embedder"] = "Модель для поиска не загружена. Обновите страницу."
	m["error.engine"] = "Модель генерации не загружена. Обновите страницу."
	m["error.generation"] = "Ошибка: не удалось сгенерировать ответ. Попробуйте ещё раз."
	m["error.fallback"] = "Извините, не могу ответить на этот вопрос. Попробуйте переформулировать."

	// User context
	m["user.guest"] = "Пользователь: гость."
	m["user.named"] = "Пользователь: %s."
	m["user.profile"] = "Имя: %s\nГруппа: %s\nПрограмма: %s\nАктивный этаж лифта: %s"
	m["user.no_name"] = "не указано"
	m["user.no_group"] = "не назначена"
	m["user.no_program"] = "не задана"
	m["user.no_floor"] = "не определён"
}
