//go:build darwin && cgo

package taskbar

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Foundation -framework AppKit

#import <Foundation/Foundation.h>
#import <AppKit/AppKit.h>

void setAccessoryPolicy(int accessory) {
    dispatch_async(dispatch_get_main_queue(), ^{
        [NSApplication sharedApplication];
        if (accessory) {
            [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
        } else {
            [NSApp setActivationPolicy:NSApplicationActivationPolicyRegular];
        }
    });
}
*/
import "C"

// setSkipTaskbar switches the activation policy; Accessory apps have no
// Dock icon and are left out of Cmd-Tab.
func setSkipTaskbar(_ string, skip bool) error {
	if skip {
		C.setAccessoryPolicy(1)
	} else {
		C.setAccessoryPolicy(0)
	}
	return nil
}
