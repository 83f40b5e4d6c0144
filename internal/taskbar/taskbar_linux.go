//go:build linux && cgo

package taskbar

/*
#cgo pkg-config: gtk+-3.0
#include <gtk/gtk.h>

static gboolean apply_skip_taskbar(gpointer data) {
    gboolean skip = GPOINTER_TO_INT(data);
    GList *windows = gtk_window_list_toplevels();
    for (GList *l = windows; l != NULL; l = l->next) {
        gtk_window_set_skip_taskbar_hint(GTK_WINDOW(l->data), skip);
        gtk_window_set_skip_pager_hint(GTK_WINDOW(l->data), skip);
    }
    g_list_free(windows);
    return G_SOURCE_REMOVE;
}

static void set_skip_taskbar(int skip) {
    g_idle_add(apply_skip_taskbar, GINT_TO_POINTER(skip));
}
*/
import "C"

// setSkipTaskbar sets the hint on every toplevel on the GTK main loop
func setSkipTaskbar(_ string, skip bool) error {
	if skip {
		C.set_skip_taskbar(1)
	} else {
		C.set_skip_taskbar(0)
	}
	return nil
}
