// Copyright Istio Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

// These functions enable logging using a global Scope. See scope.go for usage information.

func registerDefaultScope() *Scope {
	return registerScope(DefaultScopeName, "Unscoped logging messages.", 1)
}

var defaultScope = registerDefaultScope()

// Fatal outputs a message at fatal level.
func Fatal(msg any) {
	defaultScope.Fatal(msg)
}

// Fatalf uses fmt.Sprintf to construct and log a message at fatal level.
func Fatalf(args ...any) {
	defaultScope.Fatalf(args...)
}

// Fatala outputs a message at fatal level, concatenating the args with fmt.Sprint.
func Fatala(args ...any) {
	defaultScope.Fatala(args...)
}

// FatalEnabled returns whether output of messages using this scope is currently enabled for fatal-level output.
func FatalEnabled() bool {
	return defaultScope.FatalEnabled()
}

// Error outputs a message at error level.
func Error(msg any) {
	defaultScope.Error(msg)
}

// Errorf uses fmt.Sprintf to construct and log a message at error level.
func Errorf(args ...any) {
	defaultScope.Errorf(args...)
}

// Errora outputs a message at error level, concatenating the args with fmt.Sprint.
func Errora(args ...any) {
	defaultScope.Errora(args...)
}

// ErrorEnabled returns whether output of messages using this scope is currently enabled for error-level output.
func ErrorEnabled() bool {
	return defaultScope.ErrorEnabled()
}

// Warn outputs a message at warn level.
func Warn(msg any) {
	defaultScope.Warn(msg)
}

// Warnf uses fmt.Sprintf to construct and log a message at warn level.
func Warnf(args ...any) {
	defaultScope.Warnf(args...)
}

// Warna outputs a message at warn level, concatenating the args with fmt.Sprint.
func Warna(args ...any) {
	defaultScope.Warna(args...)
}

// WarnEnabled returns whether output of messages using this scope is currently enabled for warn-level output.
func WarnEnabled() bool {
	return defaultScope.WarnEnabled()
}

// Info outputs a message at info level.
func Info(msg any) {
	defaultScope.Info(msg)
}

// Infof uses fmt.Sprintf to construct and log a message at info level.
func Infof(args ...any) {
	defaultScope.Infof(args...)
}

// Infoa outputs a message at info level, concatenating the args with fmt.Sprint.
func Infoa(args ...any) {
	defaultScope.Infoa(args...)
}

// InfoEnabled returns whether output of messages using this scope is currently enabled for info-level output.
func InfoEnabled() bool {
	return defaultScope.InfoEnabled()
}

// Debug outputs a message at debug level.
func Debug(msg any) {
	defaultScope.Debug(msg)
}

// Debugf uses fmt.Sprintf to construct and log a message at debug level.
func Debugf(args ...any) {
	defaultScope.Debugf(args...)
}

// Debuga outputs a message at debug level, concatenating the args with fmt.Sprint.
func Debuga(args ...any) {
	defaultScope.Debuga(args...)
}

// DebugEnabled returns whether output of messages using this scope is currently enabled for debug-level output.
func DebugEnabled() bool {
	return defaultScope.DebugEnabled()
}

// WithLabels adds a key-value pairs to the labels in s. The key must be a string, while the value may be any type.
// It returns a copy of the default scope, with the labels added.
func WithLabels(kvlist ...any) *Scope {
	return defaultScope.WithLabels(kvlist...)
}
