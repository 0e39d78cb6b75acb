
// Package fuzztests houses Go fuzz harnesses for the bindoc pipeline
// (source -> extract) and the signature compactor. Its goal is to smoke
// test robustness and guard against panics or allocator explosions on
// arbitrary inputs.
//
// Назначение: прогонять произвольные байты через FileSet и extract, а
// произвольные наборы перегрузок через signature.Compact.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/extract, internal/signature,
// internal/diag, internal/testkit.

package fuzztests
