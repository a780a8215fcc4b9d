package utils

import (
	"os"
	"os/signal"
	"syscall"
)

// HandleTerminationProcess подписывается на сигналы завершения процесса и
// перед выходом выполняет переданную функцию освобождения ресурсов
// (движки панелей, издатель push-канала, пул базы данных).
func HandleTerminationProcess(cleanup func()) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signals
		cleanup()
		os.Exit(0)
	}()
}
