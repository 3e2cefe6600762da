package logger

import (
    "sync"

    "go.uber.org/zap"
)

var (
    global *zap.Logger = zap.NewNop()
    mu     sync.RWMutex
)

// Init 初始化全局 logger（production 编码；debug=true 时用开发配置）
func Init(debug bool) error {
    var (
        l   *zap.Logger
        err error
    )
    if debug {
        l, err = zap.NewDevelopment()
    } else {
        l, err = zap.NewProduction()
    }
    if err != nil {
        return err
    }
    mu.Lock()
    global = l
    mu.Unlock()
    return nil
}

// L 返回全局 logger
func L() *zap.Logger {
    mu.RLock()
    defer mu.RUnlock()
    return global
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

// Sync flushes buffered entries; call on shutdown.
func Sync() {
    _ = L().Sync()
}
