package vkng

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
)

func TestMessageLogger(t *testing.T) {
	c := qt.New(t)

	log, hook := test.NewNullLogger()
	messages := &messageLogger{log: log}

	info := messages.createInfo()
	c.Assert(info.MessageSeverity&ext_debug_utils.SeverityWarning, qt.Not(qt.Equals), ext_debug_utils.DebugUtilsMessageSeverityFlags(0))
	c.Assert(info.MessageSeverity&ext_debug_utils.SeverityError, qt.Not(qt.Equals), ext_debug_utils.DebugUtilsMessageSeverityFlags(0))

	abort := messages.logMessage(ext_debug_utils.TypeValidation, ext_debug_utils.SeverityError, &ext_debug_utils.DebugUtilsMessengerCallbackData{
		MessageIDName: "VUID-vkCreateDevice-ppEnabledExtensionNames-01387",
		Message:       "missing dependency",
	})
	c.Assert(abort, qt.IsFalse)
	c.Assert(hook.LastEntry().Level, qt.Equals, logrus.ErrorLevel)
	c.Assert(hook.LastEntry().Message, qt.Equals, "missing dependency")
	c.Assert(hook.LastEntry().Data["id"], qt.Equals, "VUID-vkCreateDevice-ppEnabledExtensionNames-01387")

	messages.logMessage(ext_debug_utils.TypePerformance, ext_debug_utils.SeverityWarning, &ext_debug_utils.DebugUtilsMessengerCallbackData{
		Message: "slow path",
	})
	c.Assert(hook.LastEntry().Level, qt.Equals, logrus.WarnLevel)
	c.Assert(hook.AllEntries(), qt.HasLen, 2)
}
