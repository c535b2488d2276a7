package cryptkeeper

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for generation events.
var (
	SignalScanStart    = capitan.NewSignal("cryptkeeper.scan.start", "Directive scan beginning")
	SignalScanComplete = capitan.NewSignal("cryptkeeper.scan.complete", "Directive scan finished")
	SignalEmitStart    = capitan.NewSignal("cryptkeeper.emit.start", "Code emission beginning")
	SignalEmitComplete = capitan.NewSignal("cryptkeeper.emit.complete", "Code emission finished")
)

// Keys for typed event data.
var (
	KeyPackage     = capitan.NewStringKey("package")
	KeyStructCount = capitan.NewIntKey("struct_count")
	KeyFieldCount  = capitan.NewIntKey("field_count")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// EmitScanStart emits an event when a package scan begins.
func EmitScanStart(ctx context.Context, pkg string) {
	capitan.Emit(ctx, SignalScanStart,
		KeyPackage.Field(pkg),
	)
}

// EmitScanComplete emits an event when a package scan finishes.
func EmitScanComplete(ctx context.Context, pkg string, structs, fields int, duration time.Duration, err error) {
	fields2 := []capitan.Field{
		KeyPackage.Field(pkg),
		KeyStructCount.Field(structs),
		KeyFieldCount.Field(fields),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields2 = append(fields2, KeyError.Field(err))
		capitan.Error(ctx, SignalScanComplete, fields2...)
	} else {
		capitan.Emit(ctx, SignalScanComplete, fields2...)
	}
}

// EmitEmitStart emits an event when code emission begins.
func EmitEmitStart(ctx context.Context, pkg string, structs int) {
	capitan.Emit(ctx, SignalEmitStart,
		KeyPackage.Field(pkg),
		KeyStructCount.Field(structs),
	)
}

// EmitEmitComplete emits an event when code emission finishes.
func EmitEmitComplete(ctx context.Context, pkg string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyPackage.Field(pkg),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEmitComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEmitComplete, fields...)
	}
}
