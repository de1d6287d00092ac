// The evinput input event system.
//
// Features:
//
//   - Finds input devices by path, by kernel device name or by a stable
//     /dev/input/by-id substring
//   - Shared or exclusive (grabbed) access, cooperating with other clients
//     at startup
//   - Non-blocking polling, safe to call from any main loop
//   - Keyboard auto-repeat reported as release/press pairs collapsed into a
//     single repeated press
//   - Key events published over MQTT, with line mode for keyboard-like RFID
//     and barcode readers
//   - HTTP status endpoint listing devices and the current modifier state
package evinput
