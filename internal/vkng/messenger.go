package vkng

import (
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/extensions/ext_debug_utils"

	"github.com/hellotriangle/vkdevice/internal/gpu"
)

// messageLogger forwards validation messages to logrus. It runs on driver
// threads and must not call back into the backend.
type messageLogger struct {
	log logrus.FieldLogger
}

func (m *messageLogger) createInfo() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    m.logMessage,
	}
}

func (m *messageLogger) logMessage(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	entry := m.log.WithFields(logrus.Fields{
		"severity": severity,
		"type":     msgType,
		"id":       data.MessageIDName,
	})

	if severity&ext_debug_utils.SeverityError != 0 {
		entry.Error(data.Message)
	} else {
		entry.Warn(data.Message)
	}
	return false
}

func (i *Instance) installMessenger(messages *messageLogger) error {
	debugUtils := ext_debug_utils.CreateExtensionFromInstance(i.instance)
	messenger, _, err := debugUtils.CreateDebugUtilsMessenger(i.instance, nil, messages.createInfo())
	if err != nil {
		return gpu.CallFailed("vkCreateDebugUtilsMessengerEXT", err)
	}
	i.messenger = messenger
	return nil
}
