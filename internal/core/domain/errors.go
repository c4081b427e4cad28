package domain

import "errors"

var (
	// ErrSlotLocked - попытка переключить слот, занятый бронированием.
	// Отклоняется локально, без обращения к хранилищу.
	ErrSlotLocked = errors.New("slot is locked by an existing booking")

	// ErrSlotIndex - индекс дня или слота вне границ недельной сетки.
	ErrSlotIndex = errors.New("day or slot index is out of range")

	// ErrWeekStartNotMonday - неделя расписания всегда адресуется понедельником.
	ErrWeekStartNotMonday = errors.New("week start must be a monday")

	// ErrWeekNotLoaded - операция над сессией, в которую еще не загружена неделя.
	ErrWeekNotLoaded = errors.New("week is not loaded into the session")

	// ErrStaleLoad - результат загрузки устарел: за время запроса сессия
	// перешла к другой неделе, результат отброшен.
	ErrStaleLoad = errors.New("load result is stale and was discarded")

	// ErrSaveInProgress - сохранение недели уже выполняется для этой сессии.
	ErrSaveInProgress = errors.New("save is already in progress")

	ErrSessionNotFound    = errors.New("schedule session not found")
	ErrSpecialistNotFound = errors.New("specialist not found")

	// ErrUnauthorized - хранилище отклонило учетные данные.
	ErrUnauthorized = errors.New("store rejected credentials")
)
