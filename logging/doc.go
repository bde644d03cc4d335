/*
Package logging initializes the application log.

The application log uses the logrus package:

https://github.com/sirupsen/logrus

The filter chains log with logrus directly, mostly on debug level, adding
the fields "chain", with the unique ID of the chain, and "filter", with the
name of the filter. Init sets the level, the format and the output of
these entries.

Components that accept a custom logger use the Logger interface. Its
default implementation, DefaultLog, writes to logrus.
*/
package logging
